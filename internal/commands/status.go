package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	constants "pistat/config"
	"pistat/internal/metrics"
	"pistat/internal/ui"
)

// NewStatusCmd creates the status command, which queries a running
// pistat server and renders its snapshot in the terminal.
func NewStatusCmd() *cobra.Command {
	var url string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Display current system metrics from a running server",
		Long: `Fetch /stats from a running pistat server and render it.

Examples:
  pistat status
  pistat status --url http://192.168.1.20:8585
  pistat status --no-cache`,
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := url + "/stats"
			if noCache {
				endpoint += "?cache=false"
			}

			client := &http.Client{Timeout: 10 * time.Second}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, endpoint, nil)
			if err != nil {
				return err
			}
			req.Header.Set("User-Agent", constants.USER_AGENT)

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("cannot reach %s (is the server running?): %w", url, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned %s", resp.Status)
			}

			var snapshot metrics.Snapshot
			if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
				return fmt.Errorf("cannot decode response: %w", err)
			}

			fmt.Print(ui.RenderSnapshot(&snapshot))
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", fmt.Sprintf("http://127.0.0.1:%d", constants.DEFAULT_PORT),
		"base URL of the pistat server")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the server's snapshot cache")

	return cmd
}
