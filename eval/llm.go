package eval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrCallBudget is returned once a runner has spent its API call budget.
var ErrCallBudget = errors.New("eval: API call budget exhausted")

// DefaultConfidence is the minimum judge confidence for accepting two
// answers as equivalent.
const DefaultConfidence = 0.8

// Answer is one model response with its token usage.
type Answer struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// Verdict is the judge's equivalence ruling on a pair of answers.
type Verdict struct {
	Equivalent bool    `json:"equivalent"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes"`
}

// Runner asks comprehension questions over serialized data and judges
// answer pairs, under a hard API call budget.
type Runner struct {
	client   *openai.Client
	model    string
	maxCalls int
	calls    int
}

// NewRunner creates a runner. A maxCalls of zero means no budget.
func NewRunner(apiKey, model string, maxCalls int) *Runner {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Runner{
		client:   openai.NewClient(apiKey),
		model:    model,
		maxCalls: maxCalls,
	}
}

// Calls returns the number of API calls made so far.
func (r *Runner) Calls() int {
	return r.calls
}

func (r *Runner) spend() error {
	if r.maxCalls > 0 && r.calls >= r.maxCalls {
		return ErrCallBudget
	}
	r.calls++
	return nil
}

// Ask poses a question against one serialized rendering of the data.
func (r *Runner) Ask(ctx context.Context, question, data string) (Answer, error) {
	if err := r.spend(); err != nil {
		return Answer{}, err
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You answer questions about structured data precisely and concisely.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: askPrompt(question, data),
			},
		},
	})
	if err != nil {
		return Answer{}, fmt.Errorf("eval: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Answer{}, fmt.Errorf("eval: completion returned no choices")
	}

	return Answer{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// Judge asks a second model call whether two answers to the same question
// are equivalent in meaning.
func (r *Runner) Judge(ctx context.Context, question, answerA, answerB string) (Verdict, error) {
	if err := r.spend(); err != nil {
		return Verdict{}, err
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You evaluate whether two answers are equivalent in meaning. Reply with strict JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: judgePrompt(question, answerA, answerB),
			},
		},
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("eval: judge: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Verdict{}, fmt.Errorf("eval: judge returned no choices")
	}

	v, perr := parseVerdict(resp.Choices[0].Message.Content)
	if perr != nil {
		// A judge that cannot be parsed falls back to exact comparison.
		return Verdict{
			Equivalent: strings.EqualFold(strings.TrimSpace(answerA), strings.TrimSpace(answerB)),
			Confidence: 0.5,
			Notes:      "judge reply unparseable; fell back to exact match",
		}, nil
	}
	return v, nil
}

// RunComprehension asks each of the case's questions over both renderings
// of the data and counts how many answer pairs the judge accepts as
// equivalent at DefaultConfidence or better. Counts are written into res.
// A budget error stops the run early; counts made so far are kept.
func (r *Runner) RunComprehension(ctx context.Context, tc TestCase, jsonText, toonText string, res *CaseResult) error {
	for _, q := range tc.Questions {
		jsonAns, err := r.Ask(ctx, q, jsonText)
		if err != nil {
			return err
		}
		toonAns, err := r.Ask(ctx, q, toonText)
		if err != nil {
			return err
		}

		res.QuestionsAsked++

		v, err := r.Judge(ctx, q, jsonAns.Content, toonAns.Content)
		if err != nil {
			return err
		}
		if v.Equivalent && v.Confidence >= DefaultConfidence {
			res.EquivalentPairs++
		}
	}
	return nil
}

func askPrompt(question, data string) string {
	return fmt.Sprintf(
		"Please answer the following question based on the data provided.\n\nData:\n%s\n\nQuestion: %s\n\nProvide only the answer, with no extra commentary.",
		data, question)
}

func judgePrompt(question, answerA, answerB string) string {
	return fmt.Sprintf(`Two AI responses answered the same question over the same data.

Question: %s
Response A: %s
Response B: %s

Do they provide the same factual information? Ignore formatting differences
such as spacing or "25.67" vs "25.670".

Reply with JSON: {"equivalent": true/false, "confidence": 0.0-1.0, "notes": "one sentence"}`,
		question, answerA, answerB)
}

// parseVerdict extracts the JSON verdict object from a judge reply,
// tolerating surrounding prose or code fences.
func parseVerdict(reply string) (Verdict, error) {
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end <= start {
		return Verdict{}, fmt.Errorf("eval: no JSON object in judge reply")
	}

	var v Verdict
	if err := json.Unmarshal([]byte(reply[start:end+1]), &v); err != nil {
		return Verdict{}, fmt.Errorf("eval: parse judge reply: %w", err)
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		return Verdict{}, fmt.Errorf("eval: judge confidence %v out of range", v.Confidence)
	}
	return v, nil
}
