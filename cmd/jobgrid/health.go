package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether a running server is healthy",
	RunE: func(cmd *cobra.Command, args []string) error {
		base := os.Getenv("JOBGRID_HTTP_URL")
		if base == "" {
			base = "http://localhost:8080"
		}

		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get(base + "/v1/health")
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server unhealthy: %s: %s", resp.Status, body)
		}
		fmt.Printf("%s\n", body)
		return nil
	},
}
