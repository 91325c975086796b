package routes

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync"

	"jungadmin/auth"
	"jungadmin/config"
	"jungadmin/logger"
	"jungadmin/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production
	},
}

// Connected clients map with mutex for thread safety
var clients = make(map[*websocket.Conn]bool)
var broadcast = make(chan []byte, 100) // Buffered channel to prevent blocking
var mutex = &sync.Mutex{}
var validate = validator.New()

// changeEvent is pushed to every connected dashboard when an entity or
// session changes, so pages can refresh without polling.
type changeEvent struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     uint   `json:"id"`
}

func notifyChange(entity, action string, id uint) {
	payload, err := json.Marshal(changeEvent{Entity: entity, Action: action, ID: id})
	if err != nil {
		return
	}
	select {
	case broadcast <- payload:
	default:
		logger.L.Warn("change event dropped, broadcast buffer full")
	}
}

func SetupRoutes(app *fiber.App) {

	wsHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.L.WithError(err).Warn("websocket upgrade failed")
			return
		}
		defer conn.Close()

		mutex.Lock()
		clients[conn] = true
		mutex.Unlock()
		logger.L.WithField("remote", conn.RemoteAddr().String()).Debug("dashboard client connected")

		// The stream is server-to-client only; reads just detect disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.L.WithError(err).Warn("websocket read error")
				}
				mutex.Lock()
				delete(clients, conn)
				mutex.Unlock()
				logger.L.WithField("remote", conn.RemoteAddr().String()).Debug("dashboard client disconnected")
				break
			}
		}
	})

	// Handle broadcasting events to all clients
	go func() {
		for message := range broadcast {
			mutex.Lock()
			for client := range clients {
				err := client.WriteMessage(websocket.TextMessage, message)
				if err != nil {
					logger.L.WithError(err).Warn("websocket write error")
					client.Close()
					delete(clients, client)
				}
			}
			mutex.Unlock()
		}
	}()

	// Mount WebSocket endpoint
	app.Get("/ws", wsHandler)

	api := app.Group("/api")

	// Session and identity
	api.Post("/auth/login", signIn)
	api.Post("/auth/logout", signOut)
	api.Get("/auth/session", auth.RequireAuth, getSession)
	api.Post("/auth/register", auth.RequireAuth, auth.RequireRole(models.RoleAdmin), registerUser)

	// User administration, backed by the server-held service key
	api.Get("/auth/users", auth.RequireAuth, auth.RequireRole(models.RoleAdmin), listUsers)
	api.Delete("/auth/delete-user", auth.RequireAuth, auth.RequireRole(models.RoleAdmin), deleteUser)

	// Image upload route
	api.Post("/upload", auth.RequireAuth, auth.RequireRole(models.RoleAdmin), uploadImage)

	// Product routes
	products := api.Group("/products", auth.RequireAuth)
	products.Get("/options", getProductOptions)
	products.Get("/", getAllProducts)
	products.Get("/:id", getProduct)
	products.Post("/", auth.RequireRole(models.RoleAdmin), createProduct)
	products.Put("/:id", auth.RequireRole(models.RoleAdmin), updateProduct)
	products.Delete("/:id", auth.RequireRole(models.RoleAdmin), deleteProduct)

	// Category routes
	categories := api.Group("/categories", auth.RequireAuth)
	categories.Get("/", getAllCategories)
	categories.Get("/:id", getCategory)
	categories.Post("/", auth.RequireRole(models.RoleAdmin), createCategory)
	categories.Put("/:id", auth.RequireRole(models.RoleAdmin), updateCategory)
	categories.Delete("/:id", auth.RequireRole(models.RoleAdmin), deleteCategory)

	// Question routes (question + answers + product links as one aggregate)
	questions := api.Group("/questions", auth.RequireAuth)
	questions.Get("/:id", getQuestion)
	questions.Post("/", auth.RequireRole(models.RoleAdmin), createQuestion)
	questions.Put("/:id", auth.RequireRole(models.RoleAdmin), updateQuestion)
	questions.Delete("/:id", auth.RequireRole(models.RoleAdmin), deleteQuestion)
}

// Image upload handler
func uploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to get uploaded file",
		})
	}

	// Generate unique filename
	uploadDir := config.Load().UploadDir
	ext := filepath.Ext(file.Filename)
	uniqueID := uuid.New().String()
	filename := uniqueID + ext

	// Save the file
	if err := c.SaveFile(file, filepath.Join(uploadDir, filename)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save file",
		})
	}

	// Return the public path that can be stored in the database
	return c.JSON(fiber.Map{
		"filename": filename,
		"path":     "/uploads/" + filename,
	})
}
