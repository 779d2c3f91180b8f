// Command lambda-http serves the resume-scorer API behind API Gateway HTTP APIs.
//
// Build:
//
//	GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"resume-scorer/internal/bootstrap"
	"resume-scorer/internal/shared/config"
	"resume-scorer/internal/shared/server/respond"
	"resume-scorer/internal/shared/telemetry"
)

// Built once per execution environment and reused across invocations.
var (
	coldStart sync.Once
	buildErr  error
	adapter   *ginadapter.GinLambdaV2
)

func build() {
	started := time.Now()
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, cfg.LogFormat)
	app, err := bootstrap.Build(cfg)
	if err != nil {
		buildErr = err
		return
	}
	adapter = ginadapter.NewV2(app.Router)
	telemetry.Info("lambda.cold_start", map[string]any{
		"env":         cfg.Env,
		"store":       cfg.ObjectStoreType,
		"duration_ms": time.Since(started).Milliseconds(),
	})
}

func handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	coldStart.Do(build)
	if buildErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{
			"error":      buildErr,
			"request_id": req.RequestContext.RequestID,
		})
		body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{
			Code:    "internal",
			Message: "Service unavailable",
		}})
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusServiceUnavailable,
			Body:       string(body),
			Headers:    map[string]string{"Content-Type": "application/json"},
		}, nil
	}
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handle)
}
