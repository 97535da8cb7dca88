package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nando/finper/internal/adapter/http/dto"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "finper-cli",
		Short: "Finper CLI tool",
		Long:  `A command line interface for interacting with the Finper API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Finper API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Balance commands
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance verification and repair",
	}

	balanceCmd.AddCommand(checkBalanceCmd())
	balanceCmd.AddCommand(checkAllCmd())
	balanceCmd.AddCommand(correctBalanceCmd())
	balanceCmd.AddCommand(correctStartBalanceCmd())
	rootCmd.AddCommand(balanceCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <account-id>",
		Short: "Verify one account balance against its movements",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body := getJSON("/api/v1/accounts/" + args[0] + "/balance")

			var check dto.BalanceCheckResponse
			if err := json.Unmarshal(body, &check); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}

			fmt.Println(formatCheck(&check))
			if !check.Balanced {
				os.Exit(1)
			}
		},
	}
}

func checkAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-all",
		Short: "Verify every account balance",
		Run: func(cmd *cobra.Command, args []string) {
			body := getJSON("/api/v1/balances")

			var checks []dto.BalanceCheckResponse
			if err := json.Unmarshal(body, &checks); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}

			drifted := 0
			for i := range checks {
				fmt.Println(formatCheck(&checks[i]))
				if !checks[i].Balanced {
					drifted++
				}
			}

			fmt.Printf("%d account(s) checked, %d drifted\n", len(checks), drifted)
			if drifted > 0 {
				os.Exit(1)
			}
		},
	}
}

func correctBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correct <account-id>",
		Short: "Recompute the account balance from balance_start plus its movements",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body := postJSON("/api/v1/accounts/" + args[0] + "/balance/correct")
			printRaw(body)
		},
	}
}

func correctStartBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correct-start <account-id>",
		Short: "Recompute balance_start from the current balance minus its movements",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body := postJSON("/api/v1/accounts/" + args[0] + "/balance/correct-start")
			printRaw(body)
		},
	}
}

func formatCheck(c *dto.BalanceCheckResponse) string {
	status := "OK"
	if !c.Balanced {
		status = "DRIFTED"
	}
	return fmt.Sprintf("%-10s %s balance=%s expected=%s movement_sum=%s",
		status, c.AccountID, c.Balance, c.Expected, c.MovementSum)
}

func getJSON(path string) []byte {
	return doRequest(http.MethodGet, path)
}

func postJSON(path string) []byte {
	return doRequest(http.MethodPost, path)
}

func doRequest(method, path string) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func printRaw(body []byte) {
	var pretty map[string]any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(strings.TrimSpace(string(body)))
		return
	}
	printJSON(pretty)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode output: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
