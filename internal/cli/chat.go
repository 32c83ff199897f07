package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/usecase"
)

var (
	chatQuestion string
	chatSession  string
	chatTopK     int
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask a question grounded in a session's documents",
	Long: `Retrieve context from the session and ask the configured language model.
The model is instructed to answer only from the retrieved excerpts.

Example:
  docchat chat -s mysession -q "What are the payment terms?"`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatQuestion, "question", "q", "", "question to ask (required)")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", domain.DefaultSessionID, "session identifier")
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "k", 0, "number of excerpts to ground on (default from config)")
	chatCmd.MarkFlagRequired("question")
}

func runChat(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.close()

	model, err := buildLLM(cfg)
	if err != nil {
		return err
	}

	answerUC, err := usecase.NewAnswerUseCase(eng.retrieve, model)
	if err != nil {
		return err
	}

	if err := eng.rehydrate(chatSession); err != nil {
		return err
	}

	answer, err := answerUC.Answer(chatQuestion, chatSession, chatTopK)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}
