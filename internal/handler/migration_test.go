package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "pvefleet/api/v1"
	"pvefleet/internal/handler"
	"pvefleet/internal/middleware"
	"pvefleet/pkg/jwt"
	"pvefleet/pkg/log"
	mock_service "pvefleet/test/mocks/service"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
)

func newMigrationRouter(logger *log.Logger, j *jwt.JWT, svc *mock_service.MockMigrationService) *gin.Engine {
	router := gin.New()
	migrationHandler := handler.NewMigrationHandler(handler.NewHandler(logger), svc)
	auth := router.Group("/migrations", middleware.StrictAuth(j, logger))
	{
		auth.POST("", migrationHandler.StartMigration)
		auth.GET("", migrationHandler.ListTasks)
		auth.GET("/:id", migrationHandler.GetTask)
		auth.DELETE("/:id", migrationHandler.CancelTask)
	}
	return router
}

func TestMigrationHandler_StartMigration(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, j, token := testEnv(t)
	mockMigrationService := mock_service.NewMockMigrationService(ctrl)
	mockMigrationService.EXPECT().
		StartMigration(gomock.Any(), testUserId, gomock.Any()).
		Return(int64(42), nil)

	srv := httptest.NewServer(newMigrationRouter(logger, j, mockMigrationService))
	defer srv.Close()

	obj := httpexpect.Default(t, srv.URL).POST("/migrations").
		WithHeader("Authorization", token).
		WithJSON(v1.StartMigrationRequest{
			SourceNodeID: 1,
			TargetNodeID: 2,
			Guests: []v1.MigrationGuestSpec{
				{VMID: 100, GuestType: "qemu"},
				{VMID: 201, GuestType: "lxc", AutoVMID: true},
			},
			TargetStorage: "local-lvm",
		}).
		Expect().Status(http.StatusOK).
		JSON().Object()
	obj.Value("code").Number().IsEqual(0)
	obj.Value("data").Object().Value("task_id").Number().IsEqual(42)
}

func TestMigrationHandler_StartMigrationBadRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, j, token := testEnv(t)
	mockMigrationService := mock_service.NewMockMigrationService(ctrl)

	srv := httptest.NewServer(newMigrationRouter(logger, j, mockMigrationService))
	defer srv.Close()

	// 缺 guests 字段
	httpexpect.Default(t, srv.URL).POST("/migrations").
		WithHeader("Authorization", token).
		WithJSON(map[string]interface{}{"source_node_id": 1, "target_node_id": 2}).
		Expect().Status(http.StatusBadRequest)
}

func TestMigrationHandler_GetTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, j, token := testEnv(t)
	mockMigrationService := mock_service.NewMockMigrationService(ctrl)
	mockMigrationService.EXPECT().GetTask(gomock.Any(), int64(7)).Return(&v1.MigrationTaskItem{
		Id:           7,
		SourceNodeID: 1,
		TargetNodeID: 2,
		Status:       "running",
		Steps: []v1.MigrationStepItem{
			{Id: 10, Seq: 0, Kind: "config", Status: "completed"},
			{Id: 11, Seq: 1, Kind: "vm", VMID: 100, GuestType: "qemu", Status: "running"},
		},
	}, nil)

	srv := httptest.NewServer(newMigrationRouter(logger, j, mockMigrationService))
	defer srv.Close()

	obj := httpexpect.Default(t, srv.URL).GET("/migrations/7").
		WithHeader("Authorization", token).
		Expect().Status(http.StatusOK).
		JSON().Object()
	obj.Value("data").Object().Value("status").String().IsEqual("running")
	obj.Value("data").Object().Value("steps").Array().Length().IsEqual(2)
}

func TestMigrationHandler_GetTaskBadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, j, token := testEnv(t)
	mockMigrationService := mock_service.NewMockMigrationService(ctrl)

	srv := httptest.NewServer(newMigrationRouter(logger, j, mockMigrationService))
	defer srv.Close()

	httpexpect.Default(t, srv.URL).GET("/migrations/abc").
		WithHeader("Authorization", token).
		Expect().Status(http.StatusBadRequest)
}

func TestMigrationHandler_ListTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, j, token := testEnv(t)
	mockMigrationService := mock_service.NewMockMigrationService(ctrl)
	mockMigrationService.EXPECT().ListTasks(gomock.Any(), gomock.Any()).Return(&v1.ListMigrationTasksResponseData{
		Total: 2,
		Items: []v1.MigrationTaskItem{{Id: 2, Status: "completed"}, {Id: 1, Status: "failed"}},
	}, nil)

	srv := httptest.NewServer(newMigrationRouter(logger, j, mockMigrationService))
	defer srv.Close()

	obj := httpexpect.Default(t, srv.URL).GET("/migrations").
		WithHeader("Authorization", token).
		WithQuery("page", 1).WithQuery("page_size", 20).
		Expect().Status(http.StatusOK).
		JSON().Object()
	obj.Value("data").Object().Value("total").Number().IsEqual(2)
	obj.Value("data").Object().Value("items").Array().Length().IsEqual(2)
}

func TestMigrationHandler_CancelTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, j, token := testEnv(t)
	mockMigrationService := mock_service.NewMockMigrationService(ctrl)
	mockMigrationService.EXPECT().CancelTask(gomock.Any(), int64(7)).Return(nil)

	srv := httptest.NewServer(newMigrationRouter(logger, j, mockMigrationService))
	defer srv.Close()

	httpexpect.Default(t, srv.URL).DELETE("/migrations/7").
		WithHeader("Authorization", token).
		Expect().Status(http.StatusOK).
		JSON().Object().Value("code").Number().IsEqual(0)
}

func TestMigrationHandler_CancelTaskError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, j, token := testEnv(t)
	mockMigrationService := mock_service.NewMockMigrationService(ctrl)
	mockMigrationService.EXPECT().CancelTask(gomock.Any(), int64(7)).Return(v1.ErrTaskNotCancelable)

	srv := httptest.NewServer(newMigrationRouter(logger, j, mockMigrationService))
	defer srv.Close()

	obj := httpexpect.Default(t, srv.URL).DELETE("/migrations/7").
		WithHeader("Authorization", token).
		Expect().Status(http.StatusInternalServerError).
		JSON().Object()
	obj.Value("code").Number().IsEqual(3002)
}
