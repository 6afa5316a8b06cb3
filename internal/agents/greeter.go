package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalambet/scout/internal/llm"
	"github.com/kalambet/scout/internal/router"
	"github.com/kalambet/scout/internal/session"
	"github.com/kalambet/scout/internal/textutil"
)

// Greeter opens conversations and nudges clients toward describing their
// hiring needs.
type Greeter struct {
	gen llm.Generator
}

func (g *Greeter) Name() router.Handler { return router.Greeter }

const initialGreetingPrompt = `You are a professional AI recruiting assistant.

CRITICAL: Only respond to what the user ACTUALLY said. Do NOT make assumptions or hallucinate information.

A client has just started a conversation. Provide a warm, professional greeting that:
1. Introduces you as a recruiting specialist
2. Shows you're ready to help with hiring needs
3. Asks what positions they're looking to fill
4. Keeps it concise (1-2 sentences max)
5. NEVER assume details not provided by the user

Be friendly but professional, like a seasoned recruiter. Base your response ONLY on what the user actually wrote.`

// hiringKeywords detect a greeting message that already carries hiring
// details, so the conversation can skip straight to inquiry.
var hiringKeywords = []string{
	"need", "hire", "looking for", "want", "positions", "roles",
	"engineers", "developers", "designers", "managers", "analysts",
}

func (g *Greeter) Handle(ctx context.Context, sess *session.Session, input string) Result {
	text, err := g.generate(ctx, sess, input)
	if err != nil {
		text = fallbackGreeting(input)
		sess.Stage = session.StageGreeting
		sess.NextActions = []string{"Wait for hiring requirements", "Build rapport"}
		return Result{Response: text}
	}

	sess.Stage = g.nextStage(input, sess.History)
	if sess.Stage == session.StageInquiry {
		sess.NextActions = []string{
			"Extract hiring requirements from user input",
			"Ask clarifying questions about roles and timeline",
			"Understand budget and location preferences",
		}
	} else {
		sess.NextActions = []string{
			"Wait for user to describe their hiring needs",
			"Build rapport and trust",
			"Guide conversation toward understanding requirements",
		}
	}
	return Result{Response: text}
}

func (g *Greeter) generate(ctx context.Context, sess *session.Session, input string) (string, error) {
	if g.gen == nil {
		return "", fmt.Errorf("no generator configured")
	}
	ctx, cancel := withGenerateTimeout(ctx)
	defer cancel()

	text, err := g.gen.Generate(ctx, g.buildPrompt(input, historyText(sess.History)))
	if err != nil {
		return "", err
	}
	text = textutil.CleanResponse(text)
	if text == "" {
		return "", fmt.Errorf("empty greeting")
	}
	return text, nil
}

func (g *Greeter) buildPrompt(input, history string) string {
	if len(strings.TrimSpace(history)) < 50 {
		return initialGreetingPrompt
	}
	return fmt.Sprintf(`You are an expert recruiting assistant.

CRITICAL: Only respond based on what the user ACTUALLY said. Do NOT hallucinate or assume information.

Previous conversation context:
%s

User's current message: "%s"

Respond professionally by:
1. Acknowledging ONLY what they explicitly mentioned
2. Showing understanding of their stated needs
3. Asking clarifying questions for missing information
4. NEVER assume details like company names, locations, or specific requirements not mentioned

Keep it professional, specific, and solution-focused. Max 2-3 sentences. Base response ONLY on facts provided.`, history, input)
}

func historyText(history []session.Message) string {
	if len(history) == 0 {
		return "This is the start of the conversation."
	}
	start := 0
	if len(history) > 5 {
		start = len(history) - 5
	}
	var lines []string
	for _, msg := range history[start:] {
		role := "Client"
		if msg.Role == "assistant" {
			role = "Agent"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, msg.Content))
	}
	return strings.Join(lines, "\n")
}

func (g *Greeter) nextStage(input string, history []session.Message) session.Stage {
	low := strings.ToLower(input)
	for _, kw := range hiringKeywords {
		if strings.Contains(low, kw) {
			return session.StageInquiry
		}
	}
	if len(history) > 2 {
		return session.StageInquiry
	}
	return session.StageGreeting
}

func fallbackGreeting(input string) string {
	low := strings.ToLower(input)
	switch {
	case strings.Contains(low, "hello") || strings.Contains(low, "hi") || strings.Contains(low, "hey"):
		return "Hello! I'm excited to help you with your hiring needs. What positions are you looking to fill?"
	case strings.Contains(low, "need") || strings.Contains(low, "hire") || strings.Contains(low, "looking"):
		return "Great! I'd love to help you find the right candidates. Could you tell me more about the roles you need to fill?"
	}
	return "Hi there! Thanks for reaching out. I'm here to help you with your recruitment needs. What can I assist you with today?"
}
