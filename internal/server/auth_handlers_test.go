package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"plume/internal/config"
	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a testify mock of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret"}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(*MockUserRepository)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "colette",
				"email":    "colette@exemple.fr",
				"password": "motdepasse",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "colette").Return(nil, nil)
				repo.On("GetByEmail", mock.Anything, "colette@exemple.fr").Return(nil, nil)
				repo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Username taken",
			body: map[string]string{
				"username": "colette",
				"email":    "autre@exemple.fr",
				"password": "motdepasse",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "colette").Return(&models.User{ID: 1}, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Ce nom d'utilisateur est déjà pris",
		},
		{
			name: "Email taken",
			body: map[string]string{
				"username": "marcel",
				"email":    "colette@exemple.fr",
				"password": "motdepasse",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "marcel").Return(nil, nil)
				repo.On("GetByEmail", mock.Anything, "colette@exemple.fr").Return(&models.User{ID: 1}, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Cet email est déjà utilisé",
		},
		{
			name: "Missing fields",
			body: map[string]string{
				"username": "colette",
			},
			mockSetup:      func(*MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Tous les champs requis doivent être remplis",
		},
		{
			name: "Invalid email",
			body: map[string]string{
				"username": "colette",
				"email":    "pas-un-email",
				"password": "motdepasse",
			},
			mockSetup:      func(*MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Format d'email invalide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Post("/register", s.Register)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var payload map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, payload["error"])
			} else {
				assert.Equal(t, "Utilisateur créé avec succès", payload["message"])
				assert.NotEmpty(t, payload["access_token"])
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{
		ID:       1,
		Username: "colette",
		Email:    "colette@exemple.fr",
		Password: string(hashed),
		Role:     models.RoleAuthor,
	}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"email": "colette@exemple.fr", "password": "motdepasse"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "colette@exemple.fr").Return(stored, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong password",
			body: map[string]string{"email": "colette@exemple.fr", "password": "faux"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "colette@exemple.fr").Return(stored, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown email",
			body: map[string]string{"email": "inconnu@exemple.fr", "password": "motdepasse"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "inconnu@exemple.fr").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing credentials",
			body:           map[string]string{"email": "colette@exemple.fr"},
			mockSetup:      func(*MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Post("/login", s.Login)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var payload map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
				assert.Equal(t, "Connexion réussie", payload["message"])
				assert.NotEmpty(t, payload["access_token"])
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	s := &Server{config: testConfig()}
	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})

	t.Run("Missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Malformed token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer pas-un-jeton")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := &Server{config: &config.Config{JWTSecret: "autre-secret"}}
		token, err := other.generateToken(&models.User{ID: 1, Role: models.RoleAuthor})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Valid token", func(t *testing.T) {
		token, err := s.generateToken(&models.User{ID: 42, Role: models.RoleAuthor})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.EqualValues(t, 42, payload["user_id"])
	})
}

func TestAdminRequired(t *testing.T) {
	tests := []struct {
		name           string
		role           models.UserRole
		expectedStatus int
	}{
		{"Author refused", models.RoleAuthor, http.StatusForbidden},
		{"Moderator refused", models.RoleModerator, http.StatusForbidden},
		{"Admin allowed", models.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockRepo.On("GetByID", mock.Anything, uint(1)).
				Return(&models.User{ID: 1, Role: tt.role}, nil)

			s := &Server{config: testConfig(), userRepo: mockRepo}
			app := fiber.New()
			app.Get("/admin",
				func(c *fiber.Ctx) error {
					c.Locals("userID", uint(1))
					return c.Next()
				},
				s.AdminRequired(),
				func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
			)

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
