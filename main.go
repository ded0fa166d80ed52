package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"grading-service/internal/cache"
	"grading-service/internal/db"
	"grading-service/internal/event"
	"grading-service/internal/handlers"
	"grading-service/internal/repository"
	"grading-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)

	database := db.Client.Database("grading_service")
	if err := db.EnsureIndexes(context.Background(), database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, grading events will not be published")
	}

	// Redis summary cache
	var summaryCache *cache.SummaryCache
	if redisURI := os.Getenv("REDIS_URI"); redisURI != "" {
		var err error
		summaryCache, err = cache.NewSummaryCache(redisURI)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer summaryCache.Close()
	} else {
		log.Println("Redis not configured, point summaries will not be cached")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Every route requires an authenticated caller; the gateway injects the
	// user id after token verification.
	r.Use(func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	})

	// Repositories, services, handlers
	questionRepo := repository.NewQuestionRepository(database)
	pointRepo := repository.NewPointRepository(database)
	assignmentRepo := repository.NewAssignmentRepository(database)
	testRepo := repository.NewTestRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)

	pointService := service.NewPointService(pointRepo, publisher, summaryCache)
	questionService := service.NewQuestionService(questionRepo, pointService, publisher)
	assignmentService := service.NewAssignmentService(assignmentRepo, questionRepo, pointService, publisher)
	testService := service.NewTestService(testRepo, attemptRepo, questionRepo, pointService, publisher)

	questionHandler := handlers.NewQuestionHandler(questionService)
	pointHandler := handlers.NewPointHandler(pointService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	testHandler := handlers.NewTestHandler(testService)

	question := r.Group("/question")
	{
		question.GET("/", questionHandler.ListQuestions)
		question.GET("/:id", questionHandler.GetQuestion)
		question.POST("/", questionHandler.CreateQuestion)
		question.PUT("/:id", questionHandler.UpdateQuestion)
		question.DELETE("/:id", questionHandler.DeleteQuestion)
		question.POST("/:id/validate", questionHandler.ValidateQuestion)
		question.POST("/:id/respond", questionHandler.RespondToValidation)
		question.POST("/:id/teacher-validate", questionHandler.TeacherValidateQuestion)
	}

	assignment := r.Group("/questionAssignment")
	{
		assignment.POST("/module/:moduleId/bulk-assign", assignmentHandler.BulkAssign)
		assignment.GET("/module/:moduleId/user/:userId", assignmentHandler.ListForUser)
		assignment.DELETE("/module/:moduleId", assignmentHandler.DeleteModule)
	}

	test := r.Group("/test")
	{
		test.POST("/", testHandler.CreateTest)
		test.GET("/:id", testHandler.GetTest)
		test.POST("/:id/publish", testHandler.PublishTest)
		test.POST("/:id/pool/:questionId", testHandler.AddQuestionToPool)
		test.DELETE("/:id/pool/:questionId", testHandler.RemoveQuestionFromPool)
		test.POST("/:id/start-attempt", testHandler.StartAttempt)
		test.POST("/attempt/:attemptId/submit", testHandler.SubmitAttempt)
		test.GET("/:id/statistics", testHandler.Statistics)
	}

	point := r.Group("/point")
	{
		point.POST("/award/custom", pointHandler.AwardCustom)
		point.GET("/user/:userId", pointHandler.ListForUser)
		point.GET("/user/:userId/summary", pointHandler.SummaryForUser)
		point.POST("/summary/bulk", pointHandler.BulkSummary)
		point.PUT("/:id", pointHandler.EditPoint)
		point.DELETE("/:id", pointHandler.DeletePoint)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
