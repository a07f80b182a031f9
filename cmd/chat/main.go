// Command chat is an interactive terminal client for the retrieval
// pipeline. It keeps the conversation history for the session and runs
// each question through embed, search, allocate, and completion.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kactuary/actuary-rag/engine/domain"
	"github.com/kactuary/actuary-rag/engine/rag"
	"github.com/kactuary/actuary-rag/engine/semantic"
	"github.com/kactuary/actuary-rag/pkg/llm"
)

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	qdrantAddr := envOr("QDRANT_URL", "localhost:6334")
	collection := envOr("QDRANT_COLLECTION", "actuary-docs")

	client, err := llm.New(llm.Config{APIKey: os.Getenv("OPENAI_API_KEY")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "openai client: %v\n", err)
		os.Exit(1)
	}

	store, err := semantic.New(qdrantAddr, collection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qdrant connect: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := rag.New(client, store, client, rag.DefaultOptions(), logger)

	fmt.Println("K-Actuary AI Assistant")
	fmt.Println("보험계리 관련 질문을 입력하세요. 종료하려면 exit 를 입력하세요.")
	fmt.Println()

	// Session-scoped history, appended one turn at a time.
	var history []domain.ChatMessage
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, err := svc.Query(ctx, question, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "오류: %v\n", err)
			continue
		}

		fmt.Println()
		fmt.Println(answer.Text)
		if len(answer.Contexts) > 0 {
			fmt.Printf("\n(참고 문서 %d건", len(answer.Contexts))
			if len(answer.Topics) > 0 {
				topics := make([]string, len(answer.Topics))
				for i, t := range answer.Topics {
					topics[i] = string(t)
				}
				fmt.Printf(", 주제: %s", strings.Join(topics, ", "))
			}
			fmt.Println(")")
		}
		fmt.Println()

		history = append(history,
			domain.ChatMessage{Role: domain.RoleUser, Content: question},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: answer.Text},
		)
	}
}
