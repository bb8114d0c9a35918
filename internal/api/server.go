package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/fabrica-tour/api/docs"
	v1 "github.com/fabrica-tour/api/internal/api/handler/v1"
	"github.com/fabrica-tour/api/internal/api/middleware"
	"github.com/fabrica-tour/api/internal/config"
	"github.com/fabrica-tour/api/internal/repository"
	"github.com/fabrica-tour/api/internal/repository/dao"
	"github.com/fabrica-tour/api/internal/scheduler"
	"github.com/fabrica-tour/api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	scheduler *scheduler.Scheduler
}

func NewServer(conf *config.AppConfig, db *gorm.DB, storage service.ObjectStorage) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userSvc := initUserService(db)
	postFeed := v1.NewFeedHandler(userSvc, conf.API.AllowedCORSDomains)
	go postFeed.Run()

	postSvc := service.NewPostService(repository.NewPostRepository(dao.NewPostDAO(db)), postFeed)

	sched, err := scheduler.Start(postSvc)
	if err != nil {
		return nil, err
	}
	s.scheduler = sched

	authHandler := s.initAuthHandler(db, userSvc)
	userHandler := v1.NewUserHandler(userSvc)
	groupHandler := s.initGroupHandler(db, userSvc)
	missionHandler := s.initMissionHandler(db, storage, userSvc, postFeed)
	prizeHandler := s.initPrizeHandler(db, userSvc, postFeed)
	pointsHandler := s.initPointsHandler(db, userSvc)
	postHandler := v1.NewPostHandler(postSvc, userSvc)
	mediaHandler := s.initMediaHandler(db, storage, userSvc)
	productHandler := s.initProductHandler(db, userSvc)

	s.MountHandlers(
		authHandler, userHandler, groupHandler, missionHandler,
		prizeHandler, pointsHandler, postHandler, mediaHandler,
		productHandler, postFeed,
	)

	return s, nil
}

// Stop shuts down background work. The HTTP listener is owned by the caller.
func (s *Server) Stop() error {
	if s.scheduler != nil {
		return s.scheduler.Stop()
	}

	return nil
}

func initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initAuthHandler(db *gorm.DB, userSvc v1.UserService) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)

	return v1.NewAuthHandler(s.Config.API, svc, userSvc)
}

func (s *Server) initGroupHandler(db *gorm.DB, userSvc v1.UserService) *v1.GroupHandler {
	groupDAO := dao.NewGroupDAO(db)
	repo := repository.NewGroupRepository(groupDAO)
	svc := service.NewGroupService(repo)

	return v1.NewGroupHandler(svc, userSvc)
}

func (s *Server) initMissionHandler(db *gorm.DB, storage service.ObjectStorage, userSvc v1.UserService, notifier service.FeedNotifier) *v1.MissionHandler {
	missionDAO := dao.NewMissionDAO(db)
	repo := repository.NewMissionRepository(missionDAO)
	svc := service.NewMissionService(repo, notifier)
	pointsSvc := service.NewPointsService(repository.NewLedgerRepository(dao.NewLedgerDAO(db)))
	mediaSvc := service.NewMediaService(repository.NewMediaRepository(dao.NewMediaDAO(db)),
		storage, s.Config.Storage.MediaBucket, s.Config.Storage.EvidenceBucket)

	return v1.NewMissionHandler(svc, pointsSvc, userSvc, mediaSvc)
}

func (s *Server) initPrizeHandler(db *gorm.DB, userSvc v1.UserService, notifier service.FeedNotifier) *v1.PrizeHandler {
	prizeDAO := dao.NewPrizeDAO(db)
	repo := repository.NewPrizeRepository(prizeDAO)
	svc := service.NewPrizeService(repo, notifier)
	pointsSvc := service.NewPointsService(repository.NewLedgerRepository(dao.NewLedgerDAO(db)))

	return v1.NewPrizeHandler(svc, pointsSvc, userSvc)
}

func (s *Server) initPointsHandler(db *gorm.DB, userSvc v1.UserService) *v1.PointsHandler {
	ledgerDAO := dao.NewLedgerDAO(db)
	repo := repository.NewLedgerRepository(ledgerDAO)
	svc := service.NewPointsService(repo)

	return v1.NewPointsHandler(svc, userSvc)
}

func (s *Server) initMediaHandler(db *gorm.DB, storage service.ObjectStorage, userSvc v1.UserService) *v1.MediaHandler {
	mediaDAO := dao.NewMediaDAO(db)
	repo := repository.NewMediaRepository(mediaDAO)
	svc := service.NewMediaService(repo, storage, s.Config.Storage.MediaBucket, s.Config.Storage.EvidenceBucket)

	return v1.NewMediaHandler(svc, userSvc)
}

func (s *Server) initProductHandler(db *gorm.DB, userSvc v1.UserService) *v1.ProductHandler {
	productDAO := dao.NewProductDAO(db)
	repo := repository.NewProductRepository(productDAO)
	svc := service.NewProductService(repo)

	return v1.NewProductHandler(svc, userSvc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	groupHandler *v1.GroupHandler,
	missionHandler *v1.MissionHandler,
	prizeHandler *v1.PrizeHandler,
	pointsHandler *v1.PointsHandler,
	postHandler *v1.PostHandler,
	mediaHandler *v1.MediaHandler,
	productHandler *v1.ProductHandler,
	feedHandler *v1.FeedHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/auth/me", authHandler.HandleGetMe)

		authenticated.GET("/users", userHandler.HandleListUsers)
		authenticated.POST("/users", userHandler.HandleCreateUser)
		authenticated.GET("/users/:userID", userHandler.HandleGetUser)
		authenticated.PUT("/users/:userID", userHandler.HandleUpdateUser)
		authenticated.PUT("/users/:userID/group", userHandler.HandleAssignGroup)

		authenticated.GET("/groups", groupHandler.HandleListGroups)
		authenticated.POST("/groups", groupHandler.HandleCreateGroup)
		authenticated.PUT("/groups/:groupID", groupHandler.HandleUpdateGroup)
		authenticated.DELETE("/groups/:groupID", groupHandler.HandleDeleteGroup)

		authenticated.GET("/missions", missionHandler.HandleListMissions)
		authenticated.POST("/missions/:missionID/complete", missionHandler.HandleCompleteMission)
		authenticated.GET("/admin/missions", missionHandler.HandleListAllMissions)
		authenticated.POST("/admin/missions", missionHandler.HandleCreateMission)
		authenticated.PUT("/admin/missions/:missionID", missionHandler.HandleUpdateMission)
		authenticated.DELETE("/admin/missions/:missionID", missionHandler.HandleDeleteMission)
		authenticated.GET("/admin/completions", missionHandler.HandleListCompletions)

		authenticated.GET("/prizes", prizeHandler.HandleListPrizes)
		authenticated.POST("/prizes/:prizeID/redeem", prizeHandler.HandleRedeemPrize)
		authenticated.GET("/admin/prizes", prizeHandler.HandleListAllPrizes)
		authenticated.POST("/admin/prizes", prizeHandler.HandleCreatePrize)
		authenticated.PUT("/admin/prizes/:prizeID", prizeHandler.HandleUpdatePrize)
		authenticated.DELETE("/admin/prizes/:prizeID", prizeHandler.HandleDeletePrize)
		authenticated.GET("/admin/redemptions", prizeHandler.HandleListRedemptions)

		authenticated.GET("/points/balance", pointsHandler.HandleGetBalance)
		authenticated.GET("/points/ranking", pointsHandler.HandleGetRanking)
		authenticated.GET("/points/rank", pointsHandler.HandleGetMyRank)

		authenticated.GET("/feed", postHandler.HandleGetFeed)
		authenticated.GET("/feed/ws", feedHandler.HandleWebSocket)
		authenticated.GET("/feed/:postID/comments", postHandler.HandleListComments)
		authenticated.POST("/feed/:postID/comments", postHandler.HandleAddComment)
		authenticated.DELETE("/feed/comments/:commentID", postHandler.HandleDeleteComment)
		authenticated.POST("/feed/:postID/reactions", postHandler.HandleReact)
		authenticated.GET("/admin/posts", postHandler.HandleListAllPosts)
		authenticated.POST("/admin/posts", postHandler.HandleCreatePost)
		authenticated.PUT("/admin/posts/:postID", postHandler.HandleUpdatePost)
		authenticated.DELETE("/admin/posts/:postID", postHandler.HandleDeletePost)

		authenticated.GET("/media", mediaHandler.HandleListMedia)
		authenticated.POST("/media/evidence", mediaHandler.HandleUploadEvidence)
		authenticated.POST("/admin/media", mediaHandler.HandleUploadMedia)
		authenticated.DELETE("/admin/media/:mediaID", mediaHandler.HandleDeleteMedia)

		authenticated.GET("/products", productHandler.HandleListProducts)
		authenticated.GET("/products/scan/:code", productHandler.HandleScanProduct)
		authenticated.GET("/admin/products", productHandler.HandleListAllProducts)
		authenticated.POST("/admin/products", productHandler.HandleCreateProduct)
		authenticated.PUT("/admin/products/:productID", productHandler.HandleUpdateProduct)
		authenticated.DELETE("/admin/products/:productID", productHandler.HandleDeleteProduct)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Factory Tour API"
	docs.SwaggerInfo.Description = "Gamified factory tour backend."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
