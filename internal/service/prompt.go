package service

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/replypilot/internal/domain"
)

// systemPrompt frames the model as a support agent and tells it how to
// weigh retrieved references against its general knowledge.
const systemPrompt = `You are a helpful, professional customer support agent.
Use the provided [Reference] context to answer the customer's question if relevant.
If the references don't help, use your general knowledge but be polite.
Follow any [Custom Instructions] provided by the agent.`

// GenerationRequest is a fully assembled prompt pair ready for the chat model.
type GenerationRequest struct {
	System string
	User   string
}

// PromptAssembler builds generation requests from a ticket and its
// retrieved context. Stateless; the zero value is usable.
type PromptAssembler struct{}

func NewPromptAssembler() *PromptAssembler {
	return &PromptAssembler{}
}

// Assemble formats the user prompt. Section order is fixed: ticket first,
// then knowledge-base references, then file context, then custom
// instructions, then the drafting directive. Empty optional sections are
// omitted entirely rather than left as blank headings.
func (a *PromptAssembler) Assemble(ticketContent string, results []*domain.RetrievalResult, fileContext, customInstruction string) GenerationRequest {
	var b strings.Builder

	fmt.Fprintf(&b, "CUSTOMER TICKET:\n\"%s\"\n\n", ticketContent)

	if len(results) > 0 {
		refs := make([]string, 0, len(results))
		for _, r := range results {
			refs = append(refs, "[Reference]: "+r.Content)
		}
		fmt.Fprintf(&b, "RELEVANT KNOWLEDGE BASE:\n%s\n\n", strings.Join(refs, "\n\n"))
	}

	if fileContext != "" {
		fmt.Fprintf(&b, "ATTACHED FILE CONTEXT:\n%s\n\n", fileContext)
	}

	if customInstruction != "" {
		fmt.Fprintf(&b, "CUSTOM INSTRUCTIONS:\n%s\n\n", customInstruction)
	}

	b.WriteString("Please draft a reply to the customer.")

	return GenerationRequest{
		System: systemPrompt,
		User:   b.String(),
	}
}
