// Package agent suggests booking rules for transaction lines that no rule
// matches yet, using a Gemini model. The suggestion is a draft: the user
// reviews and saves it, the agent never writes to the store.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/evdbrink/networth"
)

// DefaultModel is the Gemini model used when the configuration names none.
const DefaultModel = "gemini-2.5-pro"

const systemPrompt = `You are a bookkeeping assistant for a personal net
worth tracker. Given one bank transaction and the chart of accounts, draft
a matching rule for it. Answer with a single JSON object:
{
  "name": short rule name,
  "field": one of "own-account", "contra-account", "contra-account-name", "description",
  "op": one of "contains", "equals", "starts-with",
  "value": the text to match,
  "ledgerId": id of the ledger account the contra line should post to
}
Prefer the counterparty name over the description, and prefer "contains"
with a short distinctive value. Only use ledger ids from the provided chart.`

// Suggestion is a drafted single-criterion rule for one transaction line.
type Suggestion struct {
	Name     string `json:"name"`
	Field    string `json:"field"`
	Op       string `json:"op"`
	Value    string `json:"value"`
	LedgerID string `json:"ledgerId"`
}

// Rule converts the suggestion into a saveable business rule.
func (s Suggestion) Rule() networth.BusinessRule {
	return networth.NewSimpleRule("", s.Name,
		networth.ParseCriterionField(s.Field),
		networth.ParseCriterionOperator(s.Op),
		s.Value,
		networth.LineItem{LedgerID: s.LedgerID, Amount: networth.OppositeOfFirstLine})
}

// Suggester drafts rules through a Gemini chat session.
type Suggester struct {
	ModelName string
	chat      *genai.Chat
}

// NewSuggester creates a suggester for the given model name, or
// DefaultModel when empty.
func NewSuggester(model string) *Suggester {
	if model == "" {
		model = DefaultModel
	}
	return &Suggester{ModelName: model}
}

// Start initializes the chat session.
func (s *Suggester) Start(ctx context.Context, client *genai.Client) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		ResponseMIMEType:  "application/json",
	}
	chat, err := client.Chats.Create(ctx, s.ModelName, config, nil)
	if err != nil {
		return err
	}
	s.chat = chat
	return nil
}

// Suggest drafts a rule for the line against the given chart of accounts.
func (s *Suggester) Suggest(ctx context.Context, line networth.TransactionLine, ledgers []networth.LedgerAccount) (Suggestion, error) {
	if s.chat == nil {
		return Suggestion{}, fmt.Errorf("suggester not started")
	}
	resp, err := s.chat.Send(ctx, &genai.Part{Text: prompt(line, ledgers)})
	if err != nil {
		return Suggestion{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Suggestion{}, fmt.Errorf("no response from model %s", s.ModelName)
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	var suggestion Suggestion
	if err := json.Unmarshal([]byte(text), &suggestion); err != nil {
		return Suggestion{}, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	if suggestion.LedgerID == "" || suggestion.Value == "" {
		return Suggestion{}, fmt.Errorf("model returned an incomplete suggestion: %q", text)
	}
	return suggestion, nil
}

// prompt renders the transaction and the chart of accounts for the model.
func prompt(line networth.TransactionLine, ledgers []networth.LedgerAccount) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transaction on %s:\n", line.Date)
	fmt.Fprintf(&b, "- own account: %s\n", line.OwnAccount)
	fmt.Fprintf(&b, "- counterparty: %s (%s)\n", line.ContraName, line.ContraAccount)
	fmt.Fprintf(&b, "- description: %s\n", line.Description)
	fmt.Fprintf(&b, "- amount: %s %s\n\n", line.Amount, line.CurrencyOrDefault())
	fmt.Fprintln(&b, "Chart of accounts:")
	for _, l := range ledgers {
		fmt.Fprintf(&b, "- %s: %s\n", l.ID, l.Name)
	}
	return b.String()
}
