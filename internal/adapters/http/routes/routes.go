package routes

import (
	"time"

	"libtrack/internal/adapters/http/handlers"
	"libtrack/internal/adapters/http/middleware"
	"libtrack/internal/adapters/persistence/repositories"
	"libtrack/internal/config"
	"libtrack/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	authorRepo := repositories.NewAuthorRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, refreshTokenRepo)
	listingService := services.NewListingService(bookRepo, loanRepo)
	catalogService := services.NewCatalogService(bookRepo, authorRepo, categoryRepo, loanRepo)
	rentalService := services.NewRentalService(db, bookRepo, loanRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(listingService, catalogService)
	rentalHandler := handlers.NewRentalHandler(rentalService, listingService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	auth := middleware.AuthMiddleware(cfg)
	admin := middleware.AdminOnly()

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Auth routes (public, tighter rate limit, never cached)
	app.Post("/login", middleware.AuthRateLimiter(), middleware.NoCacheHeaders(), authHandler.Login)
	app.Post("/api/login", middleware.AuthRateLimiter(), middleware.NoCacheHeaders(), authHandler.Login)
	app.Post("/registration", middleware.AuthRateLimiter(), middleware.NoCacheHeaders(), authHandler.Register)
	app.Get("/clear-cookie", authHandler.Logout)

	// Auth routes (session management)
	app.Post("/api/refresh", middleware.NoCacheHeaders(), authHandler.RefreshToken)
	app.Post("/api/logout-all", auth, authHandler.LogoutAll)
	app.Get("/api/me", auth, authHandler.Me)

	// Book listing & catalog routes
	app.Get("/book-list", auth, bookHandler.List)
	app.Post("/book-list", auth, admin, bookHandler.Create)
	app.Get("/book/:id", auth, bookHandler.Get)
	app.Post("/book", auth, admin, bookHandler.Create)
	app.Put("/book/:id", auth, admin, bookHandler.Update)
	app.Delete("/book/:id", auth, admin, bookHandler.Delete)

	// Rental routes
	app.Post("/book/:id/rent", auth, rentalHandler.Rent)
	app.Get("/rents-list", auth, rentalHandler.History)
	app.Get("/api/rents", auth, rentalHandler.History)

	// Author & category routes (reads cached for an hour)
	app.Get("/authors", auth, middleware.CacheControl(time.Hour), catalogHandler.ListAuthors)
	app.Post("/authors", auth, admin, catalogHandler.CreateAuthors)
	app.Delete("/authors/:id", auth, admin, catalogHandler.DeleteAuthor)
	app.Get("/categories", auth, middleware.CacheControl(time.Hour), catalogHandler.ListCategories)
	app.Post("/categories", auth, admin, catalogHandler.CreateCategories)
	app.Delete("/categories/:name", auth, admin, catalogHandler.DeleteCategory)

	// Profile routes (authenticated users)
	profileRoutes := app.Group("/api/profile", auth)
	profileRoutes.Get("/", userHandler.GetProfile)
	profileRoutes.Put("/", userHandler.UpdateProfile)
	profileRoutes.Put("/password", userHandler.ChangePassword)

	// User management routes (admin only)
	userRoutes := app.Group("/api/users", auth, admin)
	userRoutes.Get("/", userHandler.ListUsers)
	userRoutes.Put("/:id/role", userHandler.SetUserRole)
}
