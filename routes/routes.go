package routes

import (
	"academy/config"
	"academy/controllers"
	"academy/middleware"
	"academy/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	instructorMiddleware := middleware.InstructorMiddleware(db, cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	app.Put("/api/auth/password", authMiddleware, authController.UpdatePassword)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Media routes
	storage := services.NewStorageService(cfg.StoragePath, cfg.PublicURLBase)
	mediaController := controllers.NewMediaController(db, cfg, storage)
	app.Post("/api/user/avatar", authMiddleware, mediaController.UploadAvatar)
	app.Static("/files", cfg.StoragePath)

	// Course routes
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.ListCourses)
	courses.Get("/:id", coursesController.GetCourse)

	// Access routes
	accessController := controllers.NewAccessController(db, cfg)
	courses.Get("/:id/access", accessController.CheckAccess)
	courses.Post("/:id/redeem", accessController.RedeemCode)
	courses.Post("/:id/enroll", accessController.EnrollFree)

	// Instructor routes
	instructor := app.Group("/api/instructor", instructorMiddleware)
	instructor.Get("/courses", coursesController.ListOwnCourses)
	instructor.Post("/courses", coursesController.CreateCourse)
	instructor.Put("/courses/:id", coursesController.UpdateCourse)
	instructor.Delete("/courses/:id", coursesController.DeleteCourse)
	instructor.Post("/courses/:id/lectures", coursesController.AddLecture)
	instructor.Put("/courses/:id/lectures/:lectureId", coursesController.UpdateLecture)
	instructor.Delete("/courses/:id/lectures/:lectureId", coursesController.DeleteLecture)
	instructor.Post("/courses/:id/lectures/:lectureId/materials", coursesController.AddMaterial)
	instructor.Put("/courses/:id/materials/:materialId", coursesController.UpdateMaterial)
	instructor.Delete("/courses/:id/materials/:materialId", coursesController.DeleteMaterial)
	instructor.Post("/videos", mediaController.UploadVideo)
	instructor.Post("/materials", mediaController.UploadMaterial)

	// Admin routes
	codesController := controllers.NewCodesController(db, cfg)
	admin := app.Group("/api/admin", adminMiddleware)
	admin.Get("/users", userController.ListUsers)
	admin.Get("/users/search", userController.SearchUsers)
	admin.Put("/users/:id/role", userController.UpdateUserRole)
	admin.Get("/codes", codesController.ListCodes)
	admin.Post("/codes", codesController.CreateCode)
	admin.Post("/codes/generate", codesController.GenerateCode)
	admin.Put("/codes/:id", codesController.UpdateCode)
	admin.Delete("/codes/:id", codesController.DeleteCode)
}
