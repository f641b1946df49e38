package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/repository/specification"
	"timecapsule-be/internal/repository/unitofwork"
	"timecapsule-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Chat Message Repository", func(t *testing.T) {
		count, err := uow.ChatMessageRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ChatMessage count: %d", count)
	})

	t.Run("Check Transactional Session Exchange", func(t *testing.T) {
		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Name:     "Integration Test User",
			Age:      30,
			Language: constant.LanguageChinese,
			ProfileData: map[string]string{
				"location_at_20": "Test City",
			},
		}

		err := uow.UserRepository().Create(context.Background(), user)
		assert.NoError(t, err)

		// Transaction Test
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		sessionId := uuid.New()
		session := &entity.ChatSession{
			Id:     sessionId,
			UserId: userId,
			Title:  "Unnamed session",
		}
		err = uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		userMsg := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: sessionId,
			Role:          constant.ChatMessageRoleUser,
			Content:       "hello from the integration test",
		}
		err = uow.ChatMessageRepository().Create(ctx, userMsg)
		assert.NoError(t, err)

		assistantMsg := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: sessionId,
			Role:          constant.ChatMessageRoleAssistant,
			Content:       "hello back",
			ResultTag:     "degraded:mock",
		}
		err = uow.ChatMessageRepository().Create(ctx, assistantMsg)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Chronological read-back should return the pair in insertion order.
		messages, err := uow.ChatMessageRepository().FindAll(context.Background(),
			specification.ByChatSessionID{ChatSessionID: sessionId},
			specification.ChronologicalOrder{},
		)
		assert.NoError(t, err)
		if assert.Len(t, messages, 2) {
			assert.Equal(t, constant.ChatMessageRoleUser, messages[0].Role)
			assert.Equal(t, constant.ChatMessageRoleAssistant, messages[1].Role)
		}

		t.Log("Successfully created session exchange in Transaction")
	})
}
