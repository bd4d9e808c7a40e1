package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/epazar20/financial-agentic-ai/internal/dashboard"
	"github.com/epazar20/financial-agentic-ai/internal/reducer"
)

func main() {
	godotenv.Load()

	apiURL := os.Getenv("ORCHESTRATOR_URL")
	if apiURL == "" {
		apiURL = "http://localhost:5001"
	}
	streamURL := os.Getenv("STREAM_URL")
	if streamURL == "" {
		streamURL = apiURL + "/stream"
	}

	feed := reducer.NewFeed()
	client := dashboard.NewClient(apiURL, streamURL, feed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Consume(ctx)

	log.Printf("Dashboard connected to %s", apiURL)
	printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case "deposit":
			amount := parseAmount(arg, 45000)
			if err := client.TriggerDeposit(ctx, amount); err != nil {
				log.Printf("Deposit trigger failed: %v", err)
			}
		case "kafka":
			amount := parseAmount(arg, 45000)
			if err := client.TriggerKafkaDeposit(ctx, amount); err != nil {
				log.Printf("Bus trigger failed: %v", err)
			}
		case "approve":
			corr, proposal := latestProposal(feed)
			if corr == "" {
				log.Println("No open proposal to approve")
				continue
			}
			if err := client.Approve(ctx, corr, proposal); err != nil {
				log.Printf("Approve failed: %v", err)
			}
		case "reject":
			corr, proposal := latestProposal(feed)
			if corr == "" {
				log.Println("No open proposal to reject")
				continue
			}
			if err := client.Reject(ctx, corr, proposal); err != nil {
				log.Printf("Reject failed: %v", err)
			}
		case "approveall":
			corr, _ := latestProposal(feed)
			if err := client.ApproveAll(ctx, corr, collectProposals(feed)); err != nil {
				log.Printf("Approve all failed: %v", err)
			}
		case "rejectall":
			corr, _ := latestProposal(feed)
			if err := client.RejectAll(ctx, corr); err != nil {
				log.Printf("Reject all failed: %v", err)
			}
		case "chat":
			if arg == "" {
				log.Println("Usage: chat <message>")
				continue
			}
			corr, _ := latestProposal(feed)
			if err := client.Chat(ctx, arg, corr); err != nil {
				log.Printf("Chat failed: %v", err)
			}
		case "feed":
			printFeed(feed)
		case "status":
			fmt.Printf("phase=%s loading=%v buttonsDisabled=%v items=%d\n",
				feed.Phase(), feed.IsLoading(), feed.ButtonsDisabled(), len(feed.Items()))
		case "help":
			printHelp()
		case "quit", "exit":
			return
		default:
			log.Printf("Unknown command %q, type help", cmd)
		}
	}
}

func printHelp() {
	fmt.Println(`Commands:
  deposit [amount]   trigger a salary deposit (default 45000)
  kafka [amount]     trigger the same deposit through the event bus
  approve            approve the latest proposal
  reject             reject the latest proposal
  approveall         approve every open proposal
  rejectall          reject every open proposal
  chat <message>     send a free-text answer
  feed               print the event feed (newest first)
  status             print reducer state
  quit               exit`)
}

func parseAmount(arg string, fallback float64) float64 {
	if arg == "" {
		return fallback
	}
	amount, err := strconv.ParseFloat(arg, 64)
	if err != nil || amount <= 0 {
		log.Printf("Invalid amount %q, using %.0f", arg, fallback)
		return fallback
	}
	return amount
}

// latestProposal finds the newest final_proposal still in the feed.
func latestProposal(feed *reducer.Feed) (string, map[string]any) {
	for _, item := range feed.Items() {
		if item.Type != "final_proposal" {
			continue
		}
		proposal, _ := item.Data["proposal"].(map[string]any)
		return item.CorrelationID, proposal
	}
	return "", nil
}

// proposalFields maps the final_proposal event's per-agent fields to the
// agent keys the approve-all endpoint expects.
var proposalFields = map[string]string{
	"paymentsProposal":   "payments",
	"riskProposal":       "risk",
	"investmentProposal": "investment",
}

// collectProposals gathers the per-agent proposals of the newest scenario
// round for the approve-all request, keyed by agent with each proposal
// nested under "proposal".
func collectProposals(feed *reducer.Feed) map[string]any {
	all := map[string]any{}
	for _, item := range feed.Items() {
		if item.Type != "final_proposal" {
			continue
		}
		for field, agentKey := range proposalFields {
			if proposal, ok := item.Data[field].(map[string]any); ok {
				all[agentKey] = map[string]any{"proposal": proposal}
			}
		}
		break
	}
	return all
}

func printFeed(feed *reducer.Feed) {
	items := feed.Items()
	if len(items) == 0 {
		fmt.Println("(feed empty)")
		return
	}
	for i, item := range items {
		header := fmt.Sprintf("[%d] %s", i, item.Event)
		if item.Type != "" && item.Type != item.Event {
			header += " type=" + item.Type
		}
		if item.CorrelationID != "" {
			header += " corr=" + item.CorrelationID
		}
		fmt.Println(header)
		if item.Collapsed {
			fmt.Println("    (collapsed)")
			continue
		}
		pretty, err := json.MarshalIndent(item.Data, "    ", "  ")
		if err != nil {
			continue
		}
		fmt.Printf("    %s\n", pretty)
	}
}
