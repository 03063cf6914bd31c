package analysis

import (
	"encoding/base64"
	"fmt"

	"billaudit-backend/internal/extract"
	"billaudit-backend/internal/llm"
)

// The instruction names the exact JSON fields the normalizer understands.
const analysisInstruction = "Analyze this bill. Return JSON with: billType, totalAmount (number), summary, keyCharges[], potentialIssues[], savingsOpportunities[], nextActions[]"

// buildPrompt turns extracted content into one inference input. Document text
// is embedded verbatim after the instruction; image bytes become a data URI
// attached as a second content part of the same message.
func buildPrompt(content extract.Content, mimeType string) llm.AnalyzeInput {
	if content.Kind == extract.KindImage {
		encoded := base64.StdEncoding.EncodeToString(content.Bytes)
		return llm.AnalyzeInput{
			Prompt:       analysisInstruction,
			ImageDataURI: fmt.Sprintf("data:%s;base64,%s", extract.NormalizeMimeType(mimeType), encoded),
		}
	}
	return llm.AnalyzeInput{
		Prompt: fmt.Sprintf("%s\n\n%s", analysisInstruction, content.Text),
	}
}
