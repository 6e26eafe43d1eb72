package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/handler"
	"github.com/opencampus/records-api/internal/middleware"
	"github.com/opencampus/records-api/internal/models"
	"github.com/opencampus/records-api/internal/service"
	"github.com/opencampus/records-api/pkg/config"
	"github.com/opencampus/records-api/pkg/logger"
	corsmiddleware "github.com/opencampus/records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/opencampus/records-api/pkg/middleware/requestid"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Auth    *service.AuthService
	Metrics *service.MetricsService

	AuthHandler       *handler.AuthHandler
	AdminHandler      *handler.AdminHandler
	TeacherHandler    *handler.TeacherHandler
	StudentHandler    *handler.StudentHandler
	RegistrarHandler  *handler.RegistrarHandler
	DeanHandler       *handler.DeanHandler
	DepartmentHandler *handler.DepartmentHandler
	HRHandler         *handler.HRHandler
	AccountingHandler *handler.AccountingHandler
	CommonHandler     *handler.CommonHandler
}

// New assembles the gin engine with the full route table.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", deps.CommonHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.AuthHandler.Register)
		auth.POST("/login", deps.AuthHandler.Login)
		auth.GET("/me", middleware.JWT(deps.Auth), deps.AuthHandler.Me)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.Auth))

	common := authed.Group("")
	{
		common.GET("/subjects", deps.CommonHandler.Subjects)
		common.GET("/teachers", deps.CommonHandler.Teachers)
		common.GET("/evaluation-questions", deps.CommonHandler.EvaluationQuestions)
	}

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", deps.AdminHandler.ListUsers)
		admin.DELETE("/users/:id", deps.AdminHandler.DeleteUser)
		admin.GET("/stats", deps.AdminHandler.Stats)
	}

	teacher := authed.Group("/teacher")
	teacher.Use(middleware.RequireRoles(models.RoleTeacher))
	{
		teacher.GET("/course-loads", deps.TeacherHandler.MyLoads)
		teacher.GET("/students/:load_id", deps.TeacherHandler.LoadStudents)
		teacher.POST("/grades", deps.TeacherHandler.SubmitGrade)
		teacher.POST("/attendance", deps.TeacherHandler.MarkAttendance)
		teacher.GET("/stats", deps.TeacherHandler.Stats)
	}

	student := authed.Group("/student")
	student.Use(middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/grades", deps.StudentHandler.MyGrades)
		student.GET("/attendance", deps.StudentHandler.MyAttendance)
		student.POST("/requests", deps.StudentHandler.FileRequest)
		student.GET("/requests", deps.StudentHandler.MyRequests)
		student.POST("/evaluations", deps.StudentHandler.SubmitEvaluation)
		student.GET("/balance", deps.StudentHandler.MyBalance)
	}

	registrar := authed.Group("/registrar")
	registrar.Use(middleware.RequireRoles(models.RoleRegistrar, models.RoleAdmin))
	{
		registrar.GET("/students", deps.RegistrarHandler.ListStudents)
		registrar.PUT("/students/:id", deps.RegistrarHandler.UpdateStudent)
		registrar.POST("/schedules", deps.RegistrarHandler.CreateSchedule)
		registrar.GET("/grades", deps.RegistrarHandler.PendingGrades)
		registrar.PUT("/grades/:id", deps.RegistrarHandler.DisposeGrade)
		registrar.GET("/requests", deps.RegistrarHandler.PendingRequests)
		registrar.PUT("/requests/:id", deps.RegistrarHandler.ResolveRequest)
		registrar.POST("/documents", deps.RegistrarHandler.UploadDocument)
		registrar.GET("/documents", deps.RegistrarHandler.ListDocuments)
	}

	dean := authed.Group("/dean")
	dean.Use(middleware.RequireRoles(models.RoleAcademicDean))
	{
		dean.GET("/grades", deps.DeanHandler.AllGrades)
		dean.GET("/course-loads", deps.DeanHandler.AllLoads)
		dean.GET("/subjects", deps.DeanHandler.Subjects)
	}

	department := authed.Group("/department")
	department.Use(middleware.RequireRoles(models.RoleDepartmentHead))
	{
		department.GET("/students", deps.DepartmentHandler.Students)
		department.GET("/grades", deps.DepartmentHandler.Grades)
	}

	hr := authed.Group("/hr")
	hr.Use(middleware.RequireRoles(models.RoleHR))
	{
		hr.GET("/teachers", deps.HRHandler.Teachers)
		hr.GET("/evaluations", deps.HRHandler.Evaluations)
		hr.POST("/evaluation-periods", deps.HRHandler.OpenPeriod)
		hr.GET("/evaluation-periods", deps.HRHandler.Periods)
		hr.POST("/evaluation-questions", deps.HRHandler.AddQuestion)
		hr.GET("/evaluation-questions", deps.HRHandler.Questions)
	}

	accounting := authed.Group("/accounting")
	accounting.Use(middleware.RequireRoles(models.RoleAccounting))
	{
		accounting.POST("/fees", deps.AccountingHandler.PostFee)
		accounting.POST("/payments", deps.AccountingHandler.PostPayment)
		accounting.GET("/payments", deps.AccountingHandler.Payments)
		accounting.GET("/payments/export", deps.AccountingHandler.PaymentsCSV)
		accounting.GET("/students/:id/payments", deps.AccountingHandler.StudentPayments)
		accounting.GET("/students/:id/balance", deps.AccountingHandler.Balance)
		accounting.GET("/students/:id/statement", deps.AccountingHandler.Statement)
		accounting.GET("/students/:id/statement.pdf", deps.AccountingHandler.StatementPDF)
	}

	return r
}
