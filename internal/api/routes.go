package api

import (
	"school-management-api/internal/model"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler, tokens TokenVerifier) {
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", handler.Login)

		bulk := v1.Group("/bulk-upload")
		bulk.Use(Authenticate(tokens), RequireRoles(model.RoleSchoolAdmin, model.RoleSuperAdmin))
		{
			bulk.POST("/students", handler.BulkUpload(model.ImportStudents))
			bulk.POST("/attendance", handler.BulkUpload(model.ImportAttendance))
			bulk.POST("/exams", handler.BulkUpload(model.ImportExams))
			bulk.POST("/results", handler.BulkUpload(model.ImportExamResults))
			bulk.GET("/history", handler.ListUploads)
			bulk.GET("/history/:id", handler.GetUpload)
		}
	}
}
