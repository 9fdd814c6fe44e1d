package app

import (
	"fmt"

	userRepository "github.com/gegcuk/kidsgpt-backend/internal/user/repository"
	userUseCase "github.com/gegcuk/kidsgpt-backend/internal/user/usecase"
)

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// RoleRepository returns the role repository instance.
func (c *Container) RoleRepository() (userUseCase.RoleRepository, error) {
	var err error
	c.roleRepoInit.Do(func() {
		c.roleRepo, err = c.initRoleRepository()
		if err != nil {
			c.initErrors["roleRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleRepo"]; exists {
		return nil, storedErr
	}
	return c.roleRepo, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (userUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initRoleRepository() (userUseCase.RoleRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for role repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLRoleRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLRoleRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (userUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for user use case: %w", err)
	}

	return userUseCase.NewUserUseCase(txManager, userRepo, roleRepo, c.PasswordService()), nil
}
