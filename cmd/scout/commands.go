package main

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/scout/internal/config"
)

// --- chat ---

type chatReply struct {
	SessionID    string   `json:"session_id"`
	Response     string   `json:"response"`
	Agent        string   `json:"agent"`
	Stage        string   `json:"stage"`
	Questions    []string `json:"clarifying_questions"`
	FollowUpType string   `json:"follow_up_type"`
}

var chatCmd = &cobra.Command{
	Use:   "chat [first message]",
	Short: "Start an interactive sales conversation",
	Long: `Start an interactive sales conversation with the assistant. Any
arguments are sent as the opening message.

Type messages and press enter. Special commands:
  /reset   reset the conversation
  /quit    exit the chat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var body any
		if first := strings.TrimSpace(strings.Join(args, " ")); first != "" {
			body = map[string]string{"initial_message": first}
		}
		resp, err := client.post(ctx, "/v1/conversations", body)
		if err != nil {
			return err
		}
		var started chatReply
		if err := decodeJSON(resp, &started); err != nil {
			return err
		}

		fmt.Printf("%s %s\n", colorize(colorBold, "scout:"), started.Response)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(colorize(colorCyan, "you> "))
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "/quit" || line == "/exit" {
				break
			}
			if line == "/reset" {
				resp, err := client.post(ctx, "/v1/conversations/"+started.SessionID+"/reset", nil)
				if err != nil {
					return err
				}
				resp.Body.Close()
				printStep("Conversation reset")
				continue
			}

			resp, err := client.post(ctx, "/v1/conversations/"+started.SessionID+"/messages",
				map[string]string{"message": line})
			if err != nil {
				return err
			}
			var reply chatReply
			if err := decodeJSON(resp, &reply); err != nil {
				printError("%v", err)
				continue
			}
			fmt.Printf("\n%s %s\n\n", colorize(colorBold, "scout:"), reply.Response)
		}
		return scanner.Err()
	},
}

// --- sessions ---

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent conversation sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/v1/sessions?days=%d&limit=%d", days, limit)
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var result struct {
			Sessions []struct {
				ID        string `json:"session_id"`
				Stage     string `json:"stage"`
				UpdatedAt string `json:"updated_at"`
			} `json:"sessions"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		for _, s := range result.Sessions {
			fmt.Printf("%s  %-15s  %s\n",
				colorize(colorCyan, s.ID[:8]),
				s.Stage,
				s.UpdatedAt,
			)
		}
		return nil
	},
}

// --- catalog ---

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the service packages on offer",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/catalog")
		if err != nil {
			return err
		}

		var result struct {
			Packages []struct {
				ID          string `json:"package_id"`
				Name        string `json:"name"`
				Description string `json:"description"`
				PriceRange  string `json:"price_range"`
				Timeline    string `json:"timeline"`
				SuccessRate string `json:"success_rate"`
			} `json:"packages"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		for _, p := range result.Packages {
			fmt.Printf("\n%s (%s)\n", colorize(colorBold, p.Name), p.ID)
			fmt.Printf("  %s\n", p.Description)
			fmt.Printf("  Price: %s | Timeline: %s | Success rate: %s\n",
				p.PriceRange, p.Timeline, p.SuccessRate)
		}
		return nil
	},
}

// --- analytics ---

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show conversation analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/v1/analytics?days=%d", days))
		if err != nil {
			return err
		}

		var analytics struct {
			Sessions    int            `json:"sessions"`
			Messages    int            `json:"messages"`
			EventCounts map[string]int `json:"event_counts"`
		}
		if err := decodeJSON(resp, &analytics); err != nil {
			return err
		}

		printStatus("Sessions", "%d", analytics.Sessions)
		printStatus("Messages", "%d", analytics.Messages)
		for event, count := range analytics.EventCounts {
			printStatus(event, "%d", count)
		}
		return nil
	},
}

// --- ingest ---

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Feed a job description into a conversation",
	Long: `Feed a job description into a conversation. The requirements
extractor processes the document text as if the client had typed it.

Examples:
  scout ingest --session 3f2a... --text "We need 2 backend engineers in Mumbai"
  scout ingest --session 3f2a... --url https://example.com/jobs/backend
  scout ingest --session 3f2a... --file ./job-description.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		text, _ := cmd.Flags().GetString("text")
		url, _ := cmd.Flags().GetString("url")
		file, _ := cmd.Flags().GetString("file")
		title, _ := cmd.Flags().GetString("title")

		if sessionID == "" {
			return fmt.Errorf("--session is required")
		}
		if text == "" && url == "" && file == "" {
			return fmt.Errorf("one of --text, --url, or --file is required")
		}

		req := map[string]any{}
		if title != "" {
			req["title"] = title
		}

		switch {
		case text != "":
			req["type"] = "text"
			req["content"] = text
		case url != "":
			req["type"] = "url"
			req["url"] = url
		case file != "":
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			if strings.EqualFold(filepath.Ext(file), ".pdf") {
				req["type"] = "pdf"
				req["content"] = base64.StdEncoding.EncodeToString(data)
			} else {
				req["type"] = "text"
				req["content"] = string(data)
			}
			if title == "" {
				req["title"] = filepath.Base(file)
			}
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/v1/conversations/"+sessionID+"/documents", req)
		if err != nil {
			return err
		}

		var reply chatReply
		if err := decodeJSON(resp, &reply); err != nil {
			return err
		}

		printSuccess("Document processed (stage: %s)", reply.Stage)
		fmt.Printf("\n%s %s\n", colorize(colorBold, "scout:"), reply.Response)
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	sessionsCmd.Flags().Int("days", 7, "look-back window in days")
	sessionsCmd.Flags().Int("limit", 50, "maximum number of sessions to list")

	analyticsCmd.Flags().Int("days", 7, "look-back window in days")

	ingestCmd.Flags().String("session", "", "conversation session id")
	ingestCmd.Flags().String("text", "", "job description text")
	ingestCmd.Flags().String("url", "", "job posting URL to fetch")
	ingestCmd.Flags().String("file", "", "job description file (.pdf or plain text)")
	ingestCmd.Flags().String("title", "", "document title")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
