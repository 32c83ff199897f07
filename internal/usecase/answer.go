package usecase

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/port"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

const answerSystemPrompt = "You are a precise document analysis assistant. Answer questions based only on the provided context."

// UploadFirstMessage is returned instead of calling the model when the
// session has no documents.
const UploadFirstMessage = "Please upload a document first before asking questions."

// AnswerUseCase grounds a language-model answer in retrieved chunks.
type AnswerUseCase struct {
	retrieve *RetrieveUseCase
	llm      port.LLM
	tmpl     *template.Template
}

func NewAnswerUseCase(retrieve *RetrieveUseCase, llm port.LLM) (*AnswerUseCase, error) {
	tmpl, err := template.ParseFS(promptTemplates, "templates/answer_prompt.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse answer template: %w", err)
	}
	return &AnswerUseCase{retrieve: retrieve, llm: llm, tmpl: tmpl}, nil
}

type promptData struct {
	Context  string
	Question string
}

// Answer retrieves context for the question and asks the model. When nothing
// has been ingested for the session it short-circuits with
// UploadFirstMessage and never calls the model.
func (u *AnswerUseCase) Answer(question, sessionID string, topK int) (string, error) {
	excerpts, err := u.retrieve.Retrieve(question, sessionID, topK)
	if err != nil {
		return "", err
	}
	if len(excerpts) == 1 && excerpts[0] == domain.NoDocumentsSentinel {
		return UploadFirstMessage, nil
	}

	prompt, err := u.BuildPrompt(question, excerpts)
	if err != nil {
		return "", err
	}

	answer, err := u.llm.GenerateWithSystem(answerSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return answer, nil
}

// BuildPrompt renders the grounding prompt: numbered excerpts separated by
// rules, followed by the question.
func (u *AnswerUseCase) BuildPrompt(question string, excerpts []string) (string, error) {
	numbered := make([]string, len(excerpts))
	for i, text := range excerpts {
		numbered[i] = fmt.Sprintf("[Excerpt %d]:\n%s", i+1, text)
	}

	var sb strings.Builder
	err := u.tmpl.Execute(&sb, promptData{
		Context:  strings.Join(numbered, "\n\n---\n\n"),
		Question: question,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render answer template: %w", err)
	}
	return sb.String(), nil
}
