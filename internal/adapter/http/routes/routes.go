package routes

import (
	"log"
	"os"
	"strconv"

	_ "seguranca_xpto/docs" // swag-generated
	"seguranca_xpto/internal/adapter/http/handlers"
	repository2 "seguranca_xpto/internal/adapter/persistence/repository"
	"seguranca_xpto/internal/infrastructure/database"
	"seguranca_xpto/internal/infrastructure/payments"
	"seguranca_xpto/internal/usecase"
	"seguranca_xpto/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	ddb := database.ConnectDynamoDB()

	estimateRepo := repository2.NewEstimateDynamoRepository(ddb)
	paymentRepo := repository2.NewBillingPaymentDynamoRepository(ddb)

	estimateUseCase := usecase.NewEstimateUseCase(estimateRepo)

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	paymentUseCase := usecase.NewBillingPaymentUseCase(paymentRepo, estimateRepo, paymentGateway)

	estimateHandler := handlers.NewEstimateHandler(estimateUseCase)
	approvalHandler := handlers.NewApprovalHandler(estimateUseCase)
	billingPaymentHandler := handlers.NewBillingPaymentHandler(paymentUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPortalRoutes(v1, estimateHandler, approvalHandler, billingPaymentHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
