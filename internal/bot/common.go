package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// htmlStripper removes the HTML markup the notices carry for Telegram.
// Discord renders none of it.
var htmlStripper = strings.NewReplacer(
	"<b>", "", "</b>", "",
	"<em>", "", "</em>", "",
	"<i>", "", "</i>", "",
)

func stripHTML(s string) string {
	return htmlStripper.Replace(s)
}

// downloadToFile streams a remote payload to destPath so large audio never
// sits fully in memory.
func downloadToFile(ctx context.Context, client *http.Client, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("write %s: %w", destPath, err)
	}

	return out.Close()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max] + "..."
}
