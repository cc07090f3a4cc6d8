package rag

import "fmt"

// groundingPrompt is the fixed instruction the generation model is held to:
// answer only from the numbered sources, cite every factual sentence, admit
// when the sources don't cover the question.
const groundingPrompt = "You must answer using only the provided sources.\n" +
	"If the answer is strongly implied but not stated verbatim, infer it cautiously and cite the supporting snippets.\n" +
	"If truly absent, say you don't know.\n" +
	"Every factual sentence MUST end with one or more bracketed citations like [1] or [2][3].\n" +
	"If the sources do not contain the answer, say you don't know.\n" +
	"Do NOT invent citations."

// AssemblePrompt combines the grounding instruction with the question and the
// evidence block. The block goes in verbatim; truncation already happened in
// BuildContext.
func AssemblePrompt(question, contextBlock string) (system, user string) {
	return groundingPrompt, fmt.Sprintf("Question: %s\n\nSources:\n%s", question, contextBlock)
}
