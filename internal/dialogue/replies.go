package dialogue

import (
	"fmt"
	"strings"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/screening"
)

var fieldPrompts = map[candidate.Field]string{
	candidate.FieldName:            "What's your full name?",
	candidate.FieldEmail:           "Great! What's your email address?",
	candidate.FieldPhone:           "Thanks! What's your phone number? (Please provide a 10-digit number with or without country code)",
	candidate.FieldYearsExperience: "How many years of professional experience do you have? (Enter 0 if you're a fresh graduate)",
	candidate.FieldDesiredPosition: "What position are you applying for? (e.g., Backend Developer, Data Scientist)",
	candidate.FieldLocation:        "Where are you currently located?",
	candidate.FieldTechStack:       "Finally, what's your tech stack? Please list the programming languages, frameworks, and tools you're proficient with (separated with commas).",
}

var irrelevantOpenings = []string{
	"I appreciate your question, but I'm specifically designed to help with the recruitment screening process. ",
	"That's an interesting question, but I'm here to conduct your interview screening. ",
	"I'd love to help, but my role is to assist with your job application. ",
}

// Greeting opens every session and ends with the first field prompt.
func Greeting() string {
	return "Welcome to TalentScout!\n\n" +
		"I'm your recruitment assistant, and I'm here to help you through our screening process.\n\n" +
		"I'll guide you step-by-step through the interview. Let's start with some basic information about you.\n\n" +
		FieldPrompt(candidate.FieldName)
}

// FieldPrompt asks for field.
func FieldPrompt(field candidate.Field) string {
	if prompt, ok := fieldPrompts[field]; ok {
		return prompt
	}
	return "Please provide the information."
}

func repromptFor(field candidate.Field) string {
	switch field {
	case candidate.FieldEmail:
		return "Please provide a valid email address (e.g., name@example.com)."
	case candidate.FieldPhone:
		return "Please provide a valid 10-digit phone number (e.g., 9876543210)."
	case candidate.FieldYearsExperience:
		return "Please provide the number of years of experience (e.g., 5, or 0 for fresh graduates)."
	default:
		return fmt.Sprintf("I couldn't quite get that. Could you please provide your %s?", field.Label())
	}
}

func confirmationPrompt(p *candidate.Profile) string {
	value := func(f candidate.Field) string {
		v, _ := p.Get(f)
		return v
	}

	var b strings.Builder
	b.WriteString("Great! I have all the information I need.\n\n")
	b.WriteString("Let me confirm what we have:\n")
	fmt.Fprintf(&b, "- Name: %s\n", value(candidate.FieldName))
	fmt.Fprintf(&b, "- Email: %s\n", value(candidate.FieldEmail))
	fmt.Fprintf(&b, "- Phone: %s\n", value(candidate.FieldPhone))
	fmt.Fprintf(&b, "- Experience: %s years\n", value(candidate.FieldYearsExperience))
	fmt.Fprintf(&b, "- Position: %s\n", value(candidate.FieldDesiredPosition))
	fmt.Fprintf(&b, "- Location: %s\n", value(candidate.FieldLocation))
	fmt.Fprintf(&b, "- Tech Stack: %s\n\n", value(candidate.FieldTechStack))
	b.WriteString("Would you like to update any of this information?\n\n")
	b.WriteString("You can say something like:\n")
	b.WriteString("- \"Update email to newemail@example.com\"\n")
	b.WriteString("- \"Change phone to 9876543210\"\n")
	b.WriteString("- Or simply say \"No\" or \"Looks good\" to continue to the technical interview.")
	return b.String()
}

func updatedReply(field candidate.Field, value string) string {
	return fmt.Sprintf("Updated %s to: %s\n\n", field.Title(), value) +
		"Would you like to update anything else, or shall we continue to the technical interview?"
}

func invalidUpdateReply(field candidate.Field) string {
	return fmt.Sprintf("Invalid value for %s. Please provide a valid value or say 'no' to continue.", field)
}

func questionBlock(number int, question string) string {
	return fmt.Sprintf("**Question %d/%d:**\n\n%s", number, screening.TotalQuestions, question)
}

func irrelevantReply(s *Session, opening string) string {
	switch {
	case s.stage == StageInfoGathering && s.confirmationPending:
		return opening + "Please let me know if you'd like to update any information (e.g., 'update email to john@example.com') or say 'no' to continue."
	case s.stage == StageInfoGathering:
		return opening + fmt.Sprintf("Let's continue - I need your %s.", s.currentField.Label())
	case s.stage == StageTechnicalQuiz:
		return opening + fmt.Sprintf("Please answer the current technical question (Question %d/%d).", s.questionCount, screening.TotalQuestions)
	default:
		return opening + "Let's get back to the interview."
	}
}

func conclusion(p *candidate.Profile) string {
	name, _ := p.Get(candidate.FieldName)
	email, _ := p.Get(candidate.FieldEmail)

	return fmt.Sprintf(`**Interview Complete!**

Thank you, %s, for taking the time to complete our screening process!

**Next Steps:**
1. Our team will review your responses within 2-3 business days
2. You'll receive an email at **%s** with our decision
3. If selected, we'll schedule a follow-up interview with our technical team

**What to Expect:**
- We evaluate candidates based on technical knowledge, problem-solving ability, and communication skills
- Selected candidates will move forward to a live coding round
- The entire process typically takes 1-2 weeks

Thank you for your interest in joining our team! We wish you the best of luck.

*Your interview data has been securely saved.*`, name, email)
}
