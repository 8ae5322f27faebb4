package openai

import (
	"fmt"
	"log"
	"strings"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const systemPrompt = "You are a senior HR specialist analyzing CVs against job requirements. Respond with JSON only. Never omit keys. Output must match the schema exactly."

const outputSchema = `{
  "overallScore": <number 0-10, overall fit for the requirements>,
  "summary": "<3-4 sentence summary of strengths and weaknesses against the requirements>",
  "extractedInfo": {
    "name": "<candidate full name>",
    "email": "<candidate email>",
    "phone": "<candidate phone number>",
    "skills": ["<detected skills>"],
    "education": ["<education background>"],
    "experience": ["<work experience>"],
    "yearsOfExperience": <integer total years of experience>
  },
  "criteria": [
    {
      "criterion": "<requirement from the job posting>",
      "score": <number 0-10 for this criterion>,
      "met": "<true|false|partially>",
      "evidence": "<exact quote from the CV supporting this evaluation>"
    }
  ],
  "redFlags": ["<potential red flags, e.g. frequent job hopping, unexplained gaps>"]
}`

// BuildPrompt creates the chat messages for a CV analysis request.
func BuildPrompt(cvText string, jobRequirements string) []Message {
	if strings.TrimSpace(cvText) == "" {
		log.Printf("openai: empty CV text, analysis will rely on requirements only")
	}
	jd := jobRequirements
	if strings.TrimSpace(jd) == "" {
		jd = "N/A"
	}
	user := fmt.Sprintf(
		"Analyze the following CV against the job requirements. Return ONLY JSON matching this schema:\n%s\n\nJob Requirements:\n%s\n\nCandidate CV Text:\n%s",
		outputSchema, jd, cvText,
	)
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}
}
