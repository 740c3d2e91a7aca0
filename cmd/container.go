package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/kabalen/permitdocs/internal/ocr"
	"github.com/kabalen/permitdocs/pkg/fsx"
	"github.com/kabalen/permitdocs/pkg/fsx/fsxs3"
	"github.com/kabalen/permitdocs/pkg/iam/apikey"
	"github.com/kabalen/permitdocs/pkg/logx"
	"github.com/kabalen/permitdocs/permit/application/applicationapi"
	"github.com/kabalen/permitdocs/permit/application/applicationinfra"
	"github.com/kabalen/permitdocs/permit/application/applicationsrv"
	"github.com/kabalen/permitdocs/permit/document/documentapi"
	"github.com/kabalen/permitdocs/permit/document/documentinfra"
	"github.com/kabalen/permitdocs/permit/document/documentsrv"
	"github.com/kabalen/permitdocs/permit/document/worker"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Services
	DocumentService    *documentsrv.Service
	ApplicationService *applicationsrv.Service
	APIKeys            *apikey.Service

	// API Handlers
	DocumentHandlers    *documentapi.DocumentHandlers
	ApplicationHandlers *applicationapi.ApplicationHandlers

	// Workers
	VerificationWorker *worker.VerificationWorker
}

// NewContainer initializes the dependency injection container
func NewContainer() *Container {
	c := &Container{}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database connection
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPass, dbName)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis connection
	redisAddr := os.Getenv("REDIS_ADDR")
	redisPass := os.Getenv("REDIS_PASS")
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPass,
		DB:       0,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. AWS S3 configuration
	awsRegion := os.Getenv("AWS_REGION")
	awsBucket := os.Getenv("AWS_BUCKET")
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		logx.Fatalf("unable to load SDK config, %v", err)
	}
	c.S3Client = s3.NewFromConfig(cfg)
	c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, awsBucket, "uploads")

	// 4. API keys
	c.APIKeys = apikey.NewService(os.Getenv("API_KEY_HASHES"))
	if !c.APIKeys.Enabled() {
		logx.Warn("API_KEY_HASHES is not set, authentication is disabled")
	}
}

func (c *Container) initServices() {
	// Repositories
	recordRepo := documentinfra.NewPostgresRepository(c.DB)
	jobRepo := documentinfra.NewPostgresJobRepository(c.DB)
	applicationRepo := applicationinfra.NewPostgresRepository(c.DB)

	// Job queue
	queueName := os.Getenv("QUEUE_NAME")
	if queueName == "" {
		queueName = "document_verifications"
	}
	queue := documentinfra.NewRedisQueue(c.Redis, queueName)

	// OCR engine selection: the tesseract binary is the default, the
	// OpenAI vision engine is opt-in for deployments without it
	ocrFactory := c.buildOCRFactory()

	// Domain services
	c.DocumentService = documentsrv.NewService(
		recordRepo,
		jobRepo,
		queue,
		c.FileSystem,
		ocrFactory,
		documentsrv.FitzRasterizer{},
	)
	c.ApplicationService = applicationsrv.NewService(applicationRepo, recordRepo)

	// Handlers
	c.DocumentHandlers = documentapi.NewDocumentHandlers(c.DocumentService, c.FileSystem)
	c.ApplicationHandlers = applicationapi.NewApplicationHandlers(c.ApplicationService)

	// Workers
	numWorkers := 3
	if v := os.Getenv("VERIFICATION_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			numWorkers = n
		}
	}
	c.VerificationWorker = worker.NewVerificationWorker(c.DocumentService, queue, numWorkers)
}

func (c *Container) buildOCRFactory() ocr.Factory {
	switch os.Getenv("OCR_ENGINE") {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logx.Fatalf("OCR_ENGINE=openai requires OPENAI_API_KEY")
		}
		logx.Info("Using OpenAI vision OCR engine")
		return ocr.NewOpenAIFactory(apiKey, os.Getenv("OPENAI_OCR_MODEL"))
	default:
		logx.Info("Using tesseract OCR engine")
		return ocr.NewTesseractFactory(ocr.TesseractConfig{
			Binary:      os.Getenv("TESSERACT_BIN"),
			TessdataDir: os.Getenv("TESSDATA_DIR"),
			PSM:         3,
			OEM:         1,
		})
	}
}
