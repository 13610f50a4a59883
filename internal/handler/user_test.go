package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v1 "pvefleet/api/v1"
	"pvefleet/internal/handler"
	"pvefleet/internal/middleware"
	"pvefleet/pkg/jwt"
	"pvefleet/pkg/log"
	mock_service "pvefleet/test/mocks/service"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUserId = "ZkGA3pzjP0bR"

func init() {
	gin.SetMode(gin.TestMode)
}

func testEnv(t *testing.T) (*log.Logger, *jwt.JWT, string) {
	t.Helper()
	conf := viper.New()
	conf.Set("security.jwt.key", "QQYnRFerJTSEcrfB89fw8prOaObmrch8")
	j := jwt.NewJwt(conf)
	token, err := j.GenToken(testUserId, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return &log.Logger{Logger: zap.NewNop()}, j, "Bearer " + token
}

func TestUserHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, _, _ := testEnv(t)
	mockUserService := mock_service.NewMockUserService(ctrl)
	mockUserService.EXPECT().Login(gomock.Any(), gomock.Any()).Return("some-jwt-token", nil)

	router := gin.New()
	userHandler := handler.NewUserHandler(handler.NewHandler(logger), mockUserService)
	router.POST("/login", userHandler.Login)

	srv := httptest.NewServer(router)
	defer srv.Close()

	obj := httpexpect.Default(t, srv.URL).POST("/login").
		WithJSON(v1.LoginRequest{Account: "admin", Password: "Ab123456"}).
		Expect().Status(http.StatusOK).
		JSON().Object()
	obj.Value("code").Number().IsEqual(0)
	obj.Value("data").Object().Value("accessToken").String().IsEqual("some-jwt-token")
}

func TestUserHandler_LoginBadRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, _, _ := testEnv(t)
	// 参数校验失败不应触达 service 层
	mockUserService := mock_service.NewMockUserService(ctrl)

	router := gin.New()
	userHandler := handler.NewUserHandler(handler.NewHandler(logger), mockUserService)
	router.POST("/login", userHandler.Login)

	srv := httptest.NewServer(router)
	defer srv.Close()

	httpexpect.Default(t, srv.URL).POST("/login").
		WithJSON(map[string]string{"account": "admin"}).
		Expect().Status(http.StatusBadRequest)
}

func TestUserHandler_GetProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, j, token := testEnv(t)
	mockUserService := mock_service.NewMockUserService(ctrl)
	mockUserService.EXPECT().GetProfile(gomock.Any(), testUserId).Return(&v1.GetProfileResponseData{
		UserId:   testUserId,
		Username: "admin",
		Email:    "pvefleet@gmail.com",
		Nickname: "PveFleet Admin",
	}, nil)

	router := gin.New()
	userHandler := handler.NewUserHandler(handler.NewHandler(logger), mockUserService)
	router.GET("/user", middleware.StrictAuth(j, logger), userHandler.GetProfile)

	srv := httptest.NewServer(router)
	defer srv.Close()

	obj := httpexpect.Default(t, srv.URL).GET("/user").
		WithHeader("Authorization", token).
		Expect().Status(http.StatusOK).
		JSON().Object()
	obj.Value("code").Number().IsEqual(0)
	obj.Value("data").Object().Value("username").String().IsEqual("admin")
}

func TestUserHandler_GetProfileUnauthorized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger, j, _ := testEnv(t)
	mockUserService := mock_service.NewMockUserService(ctrl)

	router := gin.New()
	userHandler := handler.NewUserHandler(handler.NewHandler(logger), mockUserService)
	router.GET("/user", middleware.StrictAuth(j, logger), userHandler.GetProfile)

	srv := httptest.NewServer(router)
	defer srv.Close()

	httpexpect.Default(t, srv.URL).GET("/user").
		Expect().Status(http.StatusUnauthorized)
}
