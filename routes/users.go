package routes

import (
	"jungadmin/auth"
	"jungadmin/config"
	"jungadmin/db"
	"jungadmin/logger"
	"jungadmin/models"

	"github.com/gofiber/fiber/v2"
)

type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignInResponse defines the structure of the login response
type SignInResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin consultant"`
}

type DeleteUserRequest struct {
	UserID uint `json:"userId"`
}

func signIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	auth.CreateSession(c, user.ID)
	notifyChange("session", "signed_in", user.ID)

	return c.JSON(SignInResponse{
		Message: "Login successful",
		User:    toUserView(user),
	})
}

func signOut(c *fiber.Ctx) error {
	if uid, ok := auth.ParseSession(c); ok {
		notifyChange("session", "signed_out", uid)
	}
	auth.ClearSession(c)
	return c.JSON(fiber.Map{"success": true})
}

// getSession returns the identity behind the current session cookie.
func getSession(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	return c.JSON(fiber.Map{"user": toUserView(user)})
}

// registerUser creates a staff account with the requested role. Only
// admins can reach this handler.
func registerUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid registration payload",
		})
	}

	var count int64
	if err := db.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check existing users",
		})
	}
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email already registered",
		})
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.L.WithError(err).Error("failed to hash password")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	user := models.User{Email: req.Email, Password: hashed, Role: req.Role}
	if err := db.DB.Create(&user).Error; err != nil {
		logger.L.WithError(err).Error("failed to create user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	notifyChange("user", "created", user.ID)
	return c.Status(fiber.StatusCreated).JSON(toUserView(user))
}

// listUsers lists all identities. It requires the server-held service key
// to be configured, mirroring the elevated credential the dashboard's user
// administration runs under.
func listUsers(c *fiber.Ctx) error {
	if config.Load().ServiceKey == "" {
		logger.L.Error("SERVICE_KEY is not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server configuration error",
		})
	}

	var users []models.User
	if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		logger.L.WithError(err).Error("failed to fetch users")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return c.JSON(fiber.Map{"users": views})
}

func deleteUser(c *fiber.Ctx) error {
	if config.Load().ServiceKey == "" {
		logger.L.Error("SERVICE_KEY is not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server configuration error",
		})
	}

	var req DeleteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if req.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	res := db.DB.Delete(&models.User{}, req.UserID)
	if res.Error != nil {
		logger.L.WithError(res.Error).Error("failed to delete user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	notifyChange("user", "deleted", req.UserID)
	return c.JSON(fiber.Map{"success": true})
}
