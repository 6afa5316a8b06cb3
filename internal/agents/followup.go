package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kalambet/scout/internal/router"
	"github.com/kalambet/scout/internal/session"
	"github.com/kalambet/scout/internal/textutil"
)

// FollowUp handles everything after a proposal lands: scheduling, contact
// collection, material requests, pricing questions and "what now".
type FollowUp struct{}

func (f *FollowUp) Name() router.Handler { return router.FollowUp }

// Follow-up request kinds, in detection precedence order.
const (
	FollowUpScheduleCall   = "schedule_call"
	FollowUpContactInfo    = "contact_info"
	FollowUpSendMaterials  = "send_materials"
	FollowUpPricingInquiry = "pricing_inquiry"
	FollowUpNextSteps      = "next_steps"
	FollowUpGeneral        = "general"
)

func (f *FollowUp) Handle(_ context.Context, sess *session.Session, input string) Result {
	typ := AnalyzeFollowUpType(input)
	var response string
	switch typ {
	case FollowUpScheduleCall:
		response = f.scheduleCall(sess, input)
	case FollowUpContactInfo:
		response = f.collectContact(sess, input)
	case FollowUpSendMaterials:
		response = f.sendMaterials(input)
	case FollowUpPricingInquiry:
		response = f.pricingInquiry(sess)
	case FollowUpNextSteps:
		response = f.nextSteps(sess)
	default:
		response = generalFollowUpText
	}
	return Result{Response: response, FollowUpType: typ}
}

var followUpKinds = []struct {
	kind     string
	keywords []string
}{
	{FollowUpScheduleCall, []string{"call", "phone", "meeting", "schedule", "talk", "discuss", "consultation"}},
	{FollowUpContactInfo, []string{"email", "phone number", "contact", "reach me", "send me"}},
	{FollowUpSendMaterials, []string{"send", "brochure", "information", "details", "proposal", "case study"}},
	{FollowUpPricingInquiry, []string{"price", "cost", "pricing", "quote", "budget", "fee"}},
	{FollowUpNextSteps, []string{"next", "what now", "proceed", "move forward", "continue"}},
}

// AnalyzeFollowUpType classifies a follow-up request by keywords, first
// matching kind wins.
func AnalyzeFollowUpType(input string) string {
	low := strings.ToLower(input)
	for _, fk := range followUpKinds {
		for _, kw := range fk.keywords {
			if strings.Contains(low, kw) {
				return fk.kind
			}
		}
	}
	return FollowUpGeneral
}

func (f *FollowUp) scheduleCall(sess *session.Session, input string) string {
	var parts []string

	if prefs := ExtractTimePreferences(input); prefs != "" {
		parts = append(parts, fmt.Sprintf("Perfect! I see you mentioned %s.", prefs))
	}

	parts = append(parts,
		"I'd love to schedule a 30-minute discovery call to discuss your hiring needs in detail.",
		"\nTo book your consultation, I'll need:",
		"• Your preferred day and time",
		"• Your phone number or preferred meeting method",
		"• Your email address for the calendar invite",
	)

	if len(sess.Profile.Roles) > 0 {
		parts = append(parts, fmt.Sprintf("\nDuring our call, we'll dive deeper into your requirements for %s and create a customized recruitment strategy.", strings.Join(sess.Profile.Roles, ", ")))
	}

	parts = append(parts,
		"\nAvailable time slots:",
		"• Monday-Friday, 9 AM - 5 PM (your local time)",
		"• Same-day appointments available for urgent needs",
		"\nHow would you prefer to connect? Phone call, video meeting, or in-person (if local)?",
	)

	sess.Stage = session.StageFollowUp
	sess.NextActions = []string{
		"Collect preferred meeting time",
		"Gather contact information",
		"Send calendar invite",
		"Prepare for discovery call",
	}
	return strings.Join(parts, "\n")
}

func (f *FollowUp) collectContact(sess *session.Session, input string) string {
	contact := textutil.ExtractContactInfo(input)
	if len(contact) > 0 {
		if sess.Profile.ContactInfo == nil {
			sess.Profile.ContactInfo = make(map[string]string)
		}
		for k, v := range contact {
			sess.Profile.ContactInfo[k] = v
		}
	}

	parts := []string{"Great! I have your contact information."}

	if email := contact["email"]; email != "" {
		if textutil.ValidEmail(email) {
			parts = append(parts, fmt.Sprintf("I'll send our detailed information packet to %s.", email))
		} else {
			parts = append(parts, "The email address seems to have a formatting issue. Could you double-check it?")
		}
	}
	if phone := contact["phone"]; phone != "" {
		if textutil.ValidPhone(phone) {
			parts = append(parts, fmt.Sprintf("I have your phone number as %s.", phone))
		} else {
			parts = append(parts, "Could you please provide a valid phone number for follow-up calls?")
		}
	}

	if contact["email"] == "" {
		parts = append(parts, "What's the best email address to send you information?")
	}
	if contact["phone"] == "" {
		parts = append(parts, "What's a good phone number to reach you at?")
	}

	parts = append(parts,
		"\nI'll follow up with:",
		"• Detailed service information and pricing",
		"• Relevant case studies from your industry",
		"• Next steps to get started",
		"\nIs there anything specific you'd like me to include?",
	)
	return strings.Join(parts, "\n")
}

// availableMaterials lists what the agency can send, keyed by request kind.
var availableMaterials = []struct {
	key         string
	description string
	keywords    []string
}{
	{"company_overview", "Company overview and service catalog", []string{"company", "overview", "about"}},
	{"pricing_guide", "Detailed pricing guide", []string{"pricing", "price", "cost", "fee"}},
	{"case_studies", "Relevant case studies from your industry", []string{"case study", "examples", "success stories"}},
	{"process_overview", "Our recruitment process overview", []string{"process", "how it works", "methodology"}},
	{"success_metrics", "Success rates and performance metrics", []string{"success rate", "metrics", "performance"}},
	{"testimonials", "Client testimonials and references", []string{"testimonials", "reviews", "references"}},
}

// IdentifyMaterials returns the material keys a message asks for.
func IdentifyMaterials(input string) []string {
	low := strings.ToLower(input)
	var found []string
	for _, m := range availableMaterials {
		for _, kw := range m.keywords {
			if strings.Contains(low, kw) {
				found = append(found, m.key)
				break
			}
		}
	}
	return found
}

func (f *FollowUp) sendMaterials(input string) string {
	requested := IdentifyMaterials(input)
	parts := []string{"Absolutely! I'll prepare the following materials for you:"}

	if len(requested) > 0 {
		for _, key := range requested {
			for _, m := range availableMaterials {
				if m.key == key {
					parts = append(parts, fmt.Sprintf("• %s", m.description))
				}
			}
		}
	} else {
		parts = append(parts,
			"• Company overview and service catalog",
			"• Pricing guide for your specific requirements",
			"• Case studies from similar companies",
			"• Our step-by-step recruitment process",
		)
	}

	parts = append(parts,
		"\nTo send these materials, I'll need your email address.",
		"What's the best email to send the information package to?",
		"\nI can have everything sent within the next hour!",
	)
	return strings.Join(parts, "\n")
}

func (f *FollowUp) pricingInquiry(sess *session.Session) string {
	parts := []string{
		"I'd be happy to provide pricing information!",
		"\n**Our Pricing Structure:**",
		"• Based on role complexity and seniority level",
		"• Transparent, no hidden fees",
		"• Volume discounts for multiple roles",
		"• Flexible payment terms available",
	}

	if len(sess.Profile.Roles) > 0 {
		parts = append(parts,
			fmt.Sprintf("\n**For your %s requirements:**", strings.Join(sess.Profile.Roles, ", ")),
			"• I can provide a detailed quote based on your specific needs",
			"• Pricing includes all services from sourcing to placement",
			"• Replacement guarantee included at no extra cost",
		)
	}

	parts = append(parts,
		"\n**What's Included in Our Fee:**",
		"• Comprehensive candidate sourcing",
		"• Skills and cultural fit assessments",
		"• Interview coordination and feedback",
		"• Reference and background checks",
		"• Offer negotiation support",
		"• 30-90 day replacement guarantee",
		"\nWould you like me to prepare a detailed quote for your specific requirements?",
	)
	return strings.Join(parts, "\n")
}

func (f *FollowUp) nextSteps(sess *session.Session) string {
	parts := []string{"Great question! Here's what happens next:"}

	switch sess.Stage {
	case session.StageGreeting, session.StageInquiry:
		parts = append(parts,
			"\n1. **Requirements Finalization** - We'll clarify any remaining details about your hiring needs",
			"2. **Service Recommendation** - I'll recommend the best package for your requirements",
			"3. **Proposal & Pricing** - You'll receive a detailed proposal with timeline and pricing",
			"4. **Agreement & Kickoff** - Once approved, we begin sourcing immediately",
		)
	case session.StageRecommendation:
		parts = append(parts,
			"\n1. **Package Selection** - Choose the service package that best fits your needs",
			"2. **Detailed Proposal** - Receive customized proposal with specific timeline and pricing",
			"3. **Contract & Kickoff** - Sign agreement and we start sourcing candidates",
			"4. **Regular Updates** - Weekly progress reports and candidate presentations",
		)
	case session.StageProposal:
		parts = append(parts,
			"\n1. **Review Proposal** - Take time to review our recommended solution",
			"2. **Q&A Session** - Schedule call to address any questions",
			"3. **Contract Signing** - Finalize agreement and payment terms",
			"4. **Project Kickoff** - Meet your dedicated recruiter and begin sourcing",
		)
	default:
		parts = append(parts,
			"\n1. **Discovery Call** - 30-minute consultation to understand your needs",
			"2. **Custom Proposal** - Tailored solution with pricing and timeline",
			"3. **Agreement** - Review and sign service agreement",
			"4. **Recruitment Launch** - Begin active candidate sourcing",
		)
	}

	parts = append(parts,
		"\n**Timeline:** Most clients move from initial contact to active recruitment within 1-2 weeks.",
		"\nWhat would you like to focus on first? I can schedule a call, send more information, or answer any specific questions you have.",
	)
	return strings.Join(parts, "\n")
}

const generalFollowUpText = `Thank you for your continued interest! I'm here to help you move forward with your hiring needs.

Here's how I can assist you right now:

📞 **Schedule a Call** - Let's discuss your requirements in detail
📧 **Send Information** - Receive detailed service information and case studies
💰 **Get Pricing** - Receive a customized quote for your specific needs
📋 **Review Options** - Go over our service packages again
⏭️ **Next Steps** - Understand the process to get started

What would be most helpful for you right now?`

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`monday|tuesday|wednesday|thursday|friday|saturday|sunday`),
	regexp.MustCompile(`this week|next week|tomorrow|today`),
	regexp.MustCompile(`\d{1,2}:\d{2}|\d{1,2} (?:am|pm)`),
	regexp.MustCompile(`morning|afternoon|evening`),
	regexp.MustCompile(`asap|urgent|soon`),
}

// ExtractTimePreferences pulls scheduling hints (days, relative dates,
// clock times, parts of day) out of a message, comma-joined.
func ExtractTimePreferences(input string) string {
	low := strings.ToLower(input)
	var found []string
	for _, re := range timePatterns {
		found = append(found, re.FindAllString(low, -1)...)
	}
	return strings.Join(found, ", ")
}
