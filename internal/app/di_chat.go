package app

import (
	"fmt"

	chatHTTP "github.com/gegcuk/kidsgpt-backend/internal/chat/http"
	chatRepository "github.com/gegcuk/kidsgpt-backend/internal/chat/repository"
	chatService "github.com/gegcuk/kidsgpt-backend/internal/chat/service"
	chatUseCase "github.com/gegcuk/kidsgpt-backend/internal/chat/usecase"
)

// ChatRepository returns the chat context and message repository.
func (c *Container) ChatRepository() (chatUseCase.ChatRepository, error) {
	var err error
	c.chatRepoInit.Do(func() {
		c.chatRepo, err = c.initChatRepository()
		if err != nil {
			c.initErrors["chatRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["chatRepo"]; exists {
		return nil, storedErr
	}
	return c.chatRepo, nil
}

// LanguageModel returns the OpenAI client used for moderation and completions.
func (c *Container) LanguageModel() *chatService.OpenAIClient {
	c.languageModelInit.Do(func() {
		c.languageModel = chatService.NewOpenAIClient(chatService.OpenAIConfig{
			APIKey:          c.config.OpenAIAPIKey,
			BaseURL:         c.config.OpenAIBaseURL,
			ChatModel:       c.config.OpenAIChatModel,
			ModerationModel: c.config.OpenAIModerationModel,
			Timeout:         c.config.OpenAITimeout,
		}, nil)
	})
	return c.languageModel
}

// ChatUseCase returns the chat use case instance.
func (c *Container) ChatUseCase() (chatUseCase.UseCase, error) {
	var err error
	c.chatUseCaseInit.Do(func() {
		c.chatUseCase, err = c.initChatUseCase()
		if err != nil {
			c.initErrors["chatUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["chatUseCase"]; exists {
		return nil, storedErr
	}
	return c.chatUseCase, nil
}

// ChatHandler returns the chat HTTP handler.
func (c *Container) ChatHandler() (*chatHTTP.ChatHandler, error) {
	var err error
	c.chatHandlerInit.Do(func() {
		c.chatHandler, err = c.initChatHandler()
		if err != nil {
			c.initErrors["chatHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["chatHandler"]; exists {
		return nil, storedErr
	}
	return c.chatHandler, nil
}

func (c *Container) initChatRepository() (chatUseCase.ChatRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for chat repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return chatRepository.NewMySQLChatRepository(db), nil
	case "postgres":
		return chatRepository.NewPostgreSQLChatRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initChatUseCase() (chatUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for chat use case: %w", err)
	}

	repo, err := c.ChatRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get chat repository for chat use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for chat use case: %w", err)
	}

	model := c.LanguageModel()
	baseUseCase := chatUseCase.NewChatUseCase(txManager, repo, userRepo, model, model.Model(), c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for chat use case: %w", err)
		}
		return chatUseCase.NewChatUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initChatHandler() (*chatHTTP.ChatHandler, error) {
	useCase, err := c.ChatUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get chat use case for chat handler: %w", err)
	}
	return chatHTTP.NewChatHandler(useCase, c.Logger()), nil
}
