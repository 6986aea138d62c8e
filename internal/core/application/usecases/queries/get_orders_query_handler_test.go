package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(string, any) {}

type GetOrdersQueryHandlerTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrdersQueryHandler
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *GetOrdersQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))

	suite.handler = queries.NewGetOrdersQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, noopTracker{})
}

func (suite *GetOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetOrdersQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)
}

func (suite *GetOrdersQueryHandlerTestSuite) seedOrder(
	id, name, phone string, date time.Time, status order.Status,
) *order.Order {
	p, err := kernel.NewPhone(phone)
	suite.Require().NoError(err)
	cust, err := customer.NewCustomer(name, p, "House 12, Dhanmondi", "Dhaka")
	suite.Require().NoError(err)
	o, err := order.NewOrder(id, date, cust, 1250, []string{"Premium Panjabi"}, status)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	query, err := queries.NewGetOrdersQuery("", "")
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_ReturnsNewestFirst() {
	suite.seedOrder("#WC-1", "Rahim Uddin", "01711223344",
		time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC), order.Pending)
	suite.seedOrder("#WC-2", "Karim Mia", "01811112222",
		time.Date(2023, 10, 26, 0, 0, 0, 0, time.UTC), order.Processing)

	query, err := queries.NewGetOrdersQuery("", "")
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal("#WC-2", result[0].ID)
	suite.Equal("#WC-1", result[1].ID)
	suite.Equal("Processing", result[0].Status)
	suite.Equal("Not Assigned", result[0].CourierStatus)
	suite.Equal([]string{"Premium Panjabi"}, result[0].LineItems)
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_FiltersByStatus() {
	suite.seedOrder("#WC-1", "Rahim Uddin", "01711223344",
		time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC), order.Pending)
	suite.seedOrder("#WC-2", "Karim Mia", "01811112222",
		time.Date(2023, 10, 26, 0, 0, 0, 0, time.UTC), order.Completed)

	query, err := queries.NewGetOrdersQuery("Completed", "")
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("#WC-2", result[0].ID)
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_SearchMatchesNamePhoneAndID() {
	suite.seedOrder("#WC-59201", "Rahim Uddin", "01711223344",
		time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC), order.Pending)
	suite.seedOrder("#WC-80000", "Karim Mia", "01811112222",
		time.Date(2023, 10, 26, 0, 0, 0, 0, time.UTC), order.Pending)

	for _, search := range []string{"rahim", "59201", "1711223344"} {
		query, err := queries.NewGetOrdersQuery("", search)
		suite.Require().NoError(err)

		result, err := suite.handler.Handle(context.Background(), query)

		suite.Require().NoError(err)
		suite.Require().Len(result, 1, "search %q", search)
		suite.Equal("#WC-59201", result[0].ID)
	}
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_CarriesCourierColumns() {
	o := suite.seedOrder("#WC-1", "Rahim Uddin", "01711223344",
		time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC), order.Processing)
	suite.Require().NoError(o.AssignCourier(courier.Pathao, "PTH-1"))
	suite.Require().NoError(suite.orderRepo.Update(context.Background(), o))

	query, err := queries.NewGetOrdersQuery("", "")
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("Pathao", result[0].CourierProvider)
	suite.Equal("Requested", result[0].CourierStatus)
	suite.Equal("PTH-1", result[0].TrackingID)
}

func (suite *GetOrdersQueryHandlerTestSuite) TestNewGetOrdersQuery_RejectsUnknownStatus() {
	_, err := queries.NewGetOrdersQuery("Shipped", "")

	suite.Error(err)
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	result, err := suite.handler.Handle(context.Background(), queries.GetOrdersQuery{})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "must be created via NewGetOrdersQuery constructor")
}

func TestGetOrdersQueryHandlerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(GetOrdersQueryHandlerTestSuite))
}
