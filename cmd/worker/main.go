package main

// Email worker: drains the side-effect queue and delivers templated emails.

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"lifemate-backend/internal/email"
	"lifemate-backend/internal/queue"
	"lifemate-backend/internal/shared/config"
	"lifemate-backend/internal/shared/metrics"
	"lifemate-backend/internal/shared/telemetry"
)

const (
	defaultRegion             = "us-east-1"
	defaultVisibilitySeconds  = 120
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func main() {
	cfg := config.Load()

	queueURL := strings.TrimSpace(cfg.EmailQueueURL)
	if queueURL == "" {
		log.Fatal("LM_EMAIL_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	region := strings.TrimSpace(cfg.AWSRegion)
	if region == "" {
		region = defaultRegion
	}
	visibilitySeconds := envInt("LM_SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("LM_WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("LM_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	mailer, err := buildMailer(ctx, cfg)
	if err != nil {
		log.Fatalf("build mailer: %v", err)
	}

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	log.Printf("email worker started queue=%s concurrency=%d", queueURL, concurrency)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("receive message: %v", err)
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, mailer, sqsClient, queueURL, m)
			}(msg)
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight sends", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight sends")
	}
}

func buildMailer(ctx context.Context, cfg config.Config) (email.Mailer, error) {
	if cfg.EmailProvider == "ses" {
		return email.NewSESMailer(ctx, cfg.AWSRegion, cfg.EmailFromAddress)
	}
	return email.LogMailer{}, nil
}

func handleMessage(ctx context.Context, mailer email.Mailer, client sqsAPI, queueURL string, msg sqstypes.Message) {
	metrics.IncEmailJobsReceived()
	body := aws.ToString(msg.Body)

	decoded, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		telemetry.Error("worker.email.decode_failed", map[string]any{
			"sqs_message_id": aws.ToString(msg.MessageId),
			"error":          err.Error(),
		})
		// Malformed payloads will never parse; drop them.
		metrics.IncEmailJobsDropped()
		deleteMessage(ctx, client, queueURL, msg)
		return
	}

	if decoded.Kind != queue.KindSendEmail || decoded.Email == nil {
		telemetry.Error("worker.email.unexpected_kind", map[string]any{
			"sqs_message_id": aws.ToString(msg.MessageId),
			"kind":           decoded.Kind,
		})
		metrics.IncEmailJobsDropped()
		deleteMessage(ctx, client, queueURL, msg)
		return
	}

	task := decoded.Email
	rendered, err := email.Render(task.To, task.Template, task.Params)
	if err != nil {
		telemetry.Error("worker.email.render_failed", map[string]any{
			"sqs_message_id": aws.ToString(msg.MessageId),
			"template":       task.Template,
			"error":          err.Error(),
		})
		metrics.IncEmailJobsDropped()
		deleteMessage(ctx, client, queueURL, msg)
		return
	}

	if err := mailer.Send(ctx, rendered); err != nil {
		// Left on the queue for redelivery after the visibility timeout.
		metrics.IncEmailJobsFailed()
		telemetry.Error("worker.email.send_failed", map[string]any{
			"sqs_message_id": aws.ToString(msg.MessageId),
			"template":       task.Template,
			"error":          err.Error(),
		})
		return
	}

	metrics.IncEmailJobsSent()
	if deleteMessage(ctx, client, queueURL, msg) {
		telemetry.Info("worker.email.sent", map[string]any{
			"sqs_message_id": aws.ToString(msg.MessageId),
			"template":       task.Template,
		})
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		telemetry.Error("worker.email.delete_failed", map[string]any{
			"sqs_message_id": aws.ToString(msg.MessageId),
			"error":          err.Error(),
		})
		return false
	}
	return true
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
