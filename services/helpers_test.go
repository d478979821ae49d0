package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"resto-api/config"
	"resto-api/logger"
	"resto-api/models"
)

// newTestDB opens a private in-memory database. One connection keeps the
// memory database alive and serialises access the way a row lock would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

type fixture struct {
	db *gorm.DB

	staff    models.Account
	customer models.Customer

	guest       models.Guest // at table 5, linked to customer
	walkIn      models.Guest // no table
	hiddenGuest models.Guest // at hidden table 7
	ghostGuest  models.Guest // at table 9, which does not exist

	pho, bunCha, chaCa, secret models.Dish
}

func ptr[T any](v T) *T { return &v }

func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{db: db}

	f.staff = models.Account{Name: "Staff", Email: "staff@resto.test", Role: "Employee"}
	require.NoError(t, db.Create(&f.staff).Error)

	require.NoError(t, db.Create(&[]models.Table{
		{Number: 5, Capacity: 4, Status: models.TableAvailable, Token: "table-5"},
		{Number: 7, Capacity: 2, Status: models.TableHidden, Token: "table-7"},
	}).Error)

	f.customer = models.Customer{Name: "Lan", Phone: "0900000001", LoyaltyPoints: 10, VisitCount: 1}
	require.NoError(t, db.Create(&f.customer).Error)

	f.guest = models.Guest{Name: "Lan", TableNumber: ptr(uint(5)), CustomerID: &f.customer.ID}
	f.walkIn = models.Guest{Name: "Walk-in"}
	f.hiddenGuest = models.Guest{Name: "Hidden", TableNumber: ptr(uint(7))}
	f.ghostGuest = models.Guest{Name: "Ghost", TableNumber: ptr(uint(9))}
	for _, g := range []*models.Guest{&f.guest, &f.walkIn, &f.hiddenGuest, &f.ghostGuest} {
		require.NoError(t, db.Create(g).Error)
	}

	f.pho = models.Dish{Name: "Pho", Price: 45000, Status: models.DishAvailable}
	f.bunCha = models.Dish{Name: "Bun Cha", Price: 55000, Status: models.DishAvailable}
	f.chaCa = models.Dish{Name: "Cha Ca", Price: 90000, Status: models.DishUnavailable}
	f.secret = models.Dish{Name: "Secret", Price: 10000, Status: models.DishHidden}
	for _, d := range []*models.Dish{&f.pho, &f.bunCha, &f.chaCa, &f.secret} {
		require.NoError(t, db.Create(d).Error)
	}

	return f
}

func (f *fixture) promotion(t *testing.T, p models.Promotion) models.Promotion {
	t.Helper()
	now := time.Now().UTC()
	if p.ApplicableTo == "" {
		p.ApplicableTo = models.AudienceBoth
	}
	p.IsActive = true
	p.StartDate = now.Add(-24 * time.Hour)
	p.EndDate = now.Add(24 * time.Hour)
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func percentOff(value int64, minSpend int64) models.Promotion {
	kind := models.DiscountPercentage
	return models.Promotion{
		Name:          fmt.Sprintf("%d%% off", value),
		Category:      models.CategoryDiscount,
		DiscountType:  &kind,
		DiscountValue: value,
		Conditions:    datatypes.NewJSONType(models.PromotionConditions{MinSpend: ptr(minSpend)}),
	}
}

func amountOff(name string, value int64) models.Promotion {
	kind := models.DiscountFixed
	return models.Promotion{
		Name:          name,
		Category:      models.CategoryDiscount,
		DiscountType:  &kind,
		DiscountValue: value,
	}
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func newOrderService(f *fixture, channels ChannelResolver) OrderService {
	return NewOrderService(f.db, NewUnitOfWork(f.db), channels, logger.Discard(), 5*time.Second)
}

// brokenUnit refuses to start any unit of work.
type brokenUnit struct{}

var errUnitUnavailable = errors.New("unit of work unavailable")

func (brokenUnit) Begin(ctx context.Context) (*gorm.DB, error) { return nil, errUnitUnavailable }
func (brokenUnit) Commit(tx *gorm.DB) error                     { return nil }
func (brokenUnit) Abort(tx *gorm.DB)                            {}
