package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"shopsight/internal/catalog"
	"shopsight/internal/chat"
	"shopsight/internal/config"
	"shopsight/internal/logging"
	"shopsight/internal/model"
	"shopsight/internal/tools"
)

func main() {
	cfg := config.Load()

	enabled := flag.String("tools", strings.Join(tools.Names(), ","), "comma-separated tools offered to the model")
	flag.Parse()

	logging.Configure(cfg.LogLevel, "console")
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	store := catalog.NewStore(cfg.CatalogPath)
	c, err := store.Catalog()
	if err != nil {
		log.Warn().Err(err).Msg("catalog not loaded")
	}

	agent := &chat.Agent{
		LLM:           openai.NewClient(cfg.OpenAIKey),
		Tools:         tools.New(store),
		Model:         cfg.Model,
		Temperature:   cfg.AgentTemperature,
		MaxIterations: cfg.AgentMaxIterations,
	}
	active := strings.Split(*enabled, ",")

	fmt.Printf("ShopSight (%d products). Type 'exit' to quit.\n", c.Len())

	var history []model.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		answer := agent.Reply(ctx, query, history, active)
		fmt.Printf("\nShopSight: %s\n", answer)

		history = append(history,
			model.ChatMessage{Role: "user", Content: query},
			model.ChatMessage{Role: "assistant", Content: answer},
		)
	}
}
