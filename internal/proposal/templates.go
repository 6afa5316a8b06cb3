package proposal

import "github.com/kalambet/scout/internal/requirements"

// Few-shot examples embedded in the pitch prompt. The technical example is
// the default; the management one is used when any requested role looks
// managerial.

const technicalTemplate = `EXAMPLE 1:
Input: Need 2 senior React developers urgently in NYC, fintech company
Output:
Subject: Urgent: 2 Senior React Developers for Fintech - Premium Talent Available

Dear Hiring Manager,

I understand you need 2 senior React developers urgently for your fintech company in NYC. This is exactly the type of critical technical hiring we excel at.

**Our Approach:**
• Immediate access to pre-vetted senior React developers with fintech experience
• Fast-track interview process optimized for urgent needs
• Specialized screening for financial services compliance and technical depth

**What We Deliver:**
✓ 2 senior React developers (5+ years experience)
✓ Fintech domain expertise with regulatory knowledge
✓ NYC-based or willing to relocate
✓ Available for immediate start

**Timeline:**
- Initial candidates: 24-48 hours
- First interviews: Within 3-5 business days
- Final selection: 1-2 weeks

**Our Fee Structure:**
20% of first year salary (standard rate for senior technical roles)
Guarantee: 90-day replacement warranty

I have 3 qualified candidates ready for immediate review. Can we schedule a brief call today to discuss your specific technical requirements?

Best regards,
[Recruiter Name]`

const managementTemplate = `EXAMPLE 2:
Input: Looking for an experienced product manager for our SaaS startup, remote OK
Output:
Subject: Senior Product Manager for SaaS Startup - Remote Leadership Talent

Hello,

I specialize in placing senior product managers with SaaS startups, and I'm excited about your remote product management opportunity.

**Our Expertise:**
• Deep network in SaaS product management community
• Understanding of startup dynamics and scale challenges
• Remote work assessment and cultural fit evaluation

**Candidate Profile We'll Deliver:**
✓ 5+ years product management experience
✓ SaaS platform development background
✓ Remote work proficiency with distributed teams
✓ Startup experience with scale-up mindset

**Our Process:**
1. Comprehensive product strategy assessment
2. Technical collaboration skills evaluation
3. Startup culture fit analysis
4. Reference checks with previous SaaS teams

**Investment:**
18% of first year salary
90-day guarantee period

I have 2 strong product managers from successful SaaS companies interested in remote opportunities. Both have experience scaling products from startup to enterprise.

Available for a discovery call this week?

Best regards,
[Recruiter Name]`

var urgencyTimelines = map[requirements.Urgency]string{
	requirements.UrgencyUrgent: "24-48 hours for initial candidates, 3-5 days for interviews",
	requirements.UrgencyHigh:   "2-3 days for initial candidates, 1 week for interviews",
	requirements.UrgencyMedium: "1 week for initial candidates, 2 weeks for full process",
	requirements.UrgencyLow:    "1-2 weeks for comprehensive search, 3-4 weeks for completion",
}

// ResponseTimeline is the response-time commitment quoted in proposals for
// a given urgency.
func ResponseTimeline(u requirements.Urgency) string {
	if t, ok := urgencyTimelines[u]; ok {
		return t
	}
	return urgencyTimelines[requirements.UrgencyMedium]
}
