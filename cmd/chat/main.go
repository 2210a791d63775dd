package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"

	"summit-backend/internal/models"
)

var (
	serverURL = flag.String("server", "http://localhost:8080", "Summit backend base URL")
	preprompt = flag.String("preprompt", "", "Override the system preprompt sent with each turn")
)

func main() {
	flag.Parse()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Println(boldGreen("Summit AI Chat"))
	fmt.Printf("Server: %s\n", boldCyan(*serverURL))
	fmt.Println("Type your message and press Enter. Type 'exit' or press Ctrl+C to quit.")
	fmt.Println()

	var conversation []models.ChatMessage

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(input, "exit") {
			break
		}
		if input == "" {
			continue
		}

		conversation = append(conversation, models.ChatMessage{Role: models.RoleUser, Content: input})

		reply, err := send(*serverURL, *preprompt, conversation)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Println("\nMake sure the backend is running: go run ./cmd/server")
			// Drop the failed turn so the history matches what the server saw.
			conversation = conversation[:len(conversation)-1]
			continue
		}

		fmt.Printf("%s %s\n\n", boldCyan("Assistant:"), reply)
		conversation = append(conversation, models.ChatMessage{Role: models.RoleAssistant, Content: reply})
	}
}

func send(baseURL, preprompt string, conversation []models.ChatMessage) (string, error) {
	body, err := json.Marshal(models.ProxyRequest{
		Messages:  conversation,
		Preprompt: preprompt,
	})
	if err != nil {
		return "", err
	}

	resp, err := http.Post(baseURL+"/api/claude", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed models.ProxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	// Error sentinels still render as chat content, matching the web UI.
	return parsed.Reply, nil
}
