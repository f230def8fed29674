package KeepAlive

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
)

const pingTimeout = 30 * time.Second

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Start pings the deployment on schedule so free tier hosts do not put the
// service to sleep. The returned cron is already running.
func Start(schedule, deploymentBaseURI string, httpClient *http.Client) (*cron.Cron, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: pingTimeout}
	}

	keepAliveCron := cron.New(cron.WithParser(cronParser))
	_, addFuncError := keepAliveCron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		if pingError := Ping(ctx, httpClient, deploymentBaseURI); pingError != nil {
			slog.Warn("KeepAlive:Start#Health check failed", "url", deploymentBaseURI, "error", pingError)
			return
		}
		slog.Debug("KeepAlive:Start#Health check successful", "url", deploymentBaseURI)
	})
	if addFuncError != nil {
		return nil, fmt.Errorf("schedule keep-alive %q: %w", schedule, addFuncError)
	}

	keepAliveCron.Start()
	return keepAliveCron, nil
}

func Ping(ctx context.Context, httpClient *http.Client, url string) error {
	request, requestError := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if requestError != nil {
		return requestError
	}

	response, pingError := httpClient.Do(request)
	if pingError != nil {
		return pingError
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d", response.StatusCode)
	}
	return nil
}
