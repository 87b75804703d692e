package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nightlife/internal/database"
	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "Night-Owl-2026!"

// Options configuration for the seeder
type Options struct {
	Users                     int
	Establishments            int
	EmployeesPerEstablishment int
	CommentsPerEmployee       int
	ShouldClean               bool
	// RandSeed makes a run reproducible; zero picks a time-based seed.
	RandSeed int64
	// PasswordCost overrides the bcrypt cost, mainly for tests.
	PasswordCost int
}

// Summary counts what a run created.
type Summary struct {
	Users          int
	Establishments int
	Employees      int
	Comments       int
}

var zones = []string{"soi6", "walking_street", "lk_metro", "soi_buakhao", "beach_road", "treetown"}

var positions = []string{"hostess", "dancer", "bartender", "waitress", "singer"}

// Seeder fills a database with demo venues, profiles and reviews.
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  Options
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.PasswordCost == 0 {
		opts.PasswordCost = bcrypt.DefaultCost
	}
	return &Seeder{db: db, faker: gofakeit.New(seed), opts: opts}
}

// ClearAll deletes every row except the reference catalog.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.InfoContext(ctx, "clearing existing data")
	all := database.PersistentModels()
	for i := len(all) - 1; i >= 0; i-- {
		switch all[i].(type) {
		case *models.EstablishmentCategory, *models.ConsumableTemplate:
			continue
		}
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", all[i], err)
		}
	}
	return nil
}

// Run seeds the catalog and then the demo graph.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if s.opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}
	if err := BuiltIns(s.db.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	users, err := s.createUsers(ctx)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Users: len(users)}

	var categories []models.EstablishmentCategory
	if err := s.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, err
	}
	var templates []models.ConsumableTemplate
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&templates).Error; err != nil {
		return nil, err
	}

	employees := repository.NewEmployeeRepository(s.db)
	for range s.opts.Establishments {
		est, err := s.createEstablishment(ctx, users, categories, templates)
		if err != nil {
			return nil, err
		}
		summary.Establishments++

		for range s.opts.EmployeesPerEstablishment {
			emp := s.buildEmployee(users)
			estID := est.ID
			if err := employees.Create(ctx, emp, &estID); err != nil {
				return nil, fmt.Errorf("create employee: %w", err)
			}
			summary.Employees++

			n, err := s.createComments(ctx, emp.ID, users)
			if err != nil {
				return nil, err
			}
			summary.Comments += n
		}
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("users", summary.Users),
		slog.Int("establishments", summary.Establishments),
		slog.Int("employees", summary.Employees),
		slog.Int("comments", summary.Comments))
	return summary, nil
}

func (s *Seeder) createUsers(ctx context.Context) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.opts.PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	users := make([]models.User, 0, s.opts.Users)
	for i := range s.opts.Users {
		accountType := models.AccountRegular
		if i%5 == 0 {
			accountType = models.AccountEstablishmentOwner
		}
		pseudonym := fmt.Sprintf("%s%d", strings.ToLower(s.faker.Username()), i)
		if len(pseudonym) > 50 {
			pseudonym = pseudonym[:50]
		}
		users = append(users, models.User{
			Pseudonym:   pseudonym,
			Email:       fmt.Sprintf("demo%d@nightlife.local", i),
			Password:    string(hash),
			Role:        models.RoleUser,
			AccountType: accountType,
			IsActive:    true,
		})
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&users, 100).Error; err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	return users, nil
}

func (s *Seeder) createEstablishment(ctx context.Context, users []models.User, categories []models.EstablishmentCategory, templates []models.ConsumableTemplate) (*models.Establishment, error) {
	row, col := s.faker.Number(1, 20), s.faker.Number(1, 20)
	est := &models.Establishment{
		Name:           s.faker.Company(),
		Address:        s.faker.Street(),
		Zone:           s.faker.RandomString(zones),
		GridRow:        &row,
		GridCol:        &col,
		Description:    s.faker.Sentence(12),
		Phone:          s.faker.Phone(),
		OpeningHours:   "18:00-03:00",
		LadydrinkPrice: decimal.NewNullDecimal(decimal.NewFromInt(int64(s.faker.Number(150, 250)))),
		BarfinePrice:   decimal.NewNullDecimal(decimal.NewFromInt(int64(s.faker.Number(500, 1500)))),
		Moderation:     s.moderation(),
	}
	if len(categories) > 0 {
		id := categories[s.faker.Number(0, len(categories)-1)].ID
		est.CategoryID = &id
	}
	if creator := s.pick(users); creator != nil {
		est.CreatedBy = creator
	}
	if err := s.db.WithContext(ctx).Create(est).Error; err != nil {
		return nil, fmt.Errorf("create establishment: %w", err)
	}

	for _, tpl := range templates {
		if !s.faker.Bool() {
			continue
		}
		price := decimal.NewFromFloat(s.faker.Price(40, 300)).Round(2)
		if err := s.db.WithContext(ctx).Create(&models.EstablishmentConsumable{
			EstablishmentID: est.ID,
			ConsumableID:    tpl.ID,
			Price:           price,
			IsAvailable:     true,
		}).Error; err != nil {
			return nil, fmt.Errorf("create price override: %w", err)
		}
	}
	return est, nil
}

func (s *Seeder) buildEmployee(users []models.User) *models.Employee {
	age := s.faker.Number(20, 35)
	emp := &models.Employee{
		Name:        s.faker.FirstName(),
		Nickname:    s.faker.PetName(),
		Age:         &age,
		Nationality: s.faker.Country(),
		Description: s.faker.Sentence(10),
		Photos:      []string{},
		SocialMedia: map[string]string{"instagram": "@" + strings.ToLower(s.faker.Username())},
		Moderation:  s.moderation(),
	}
	emp.CreatedBy = s.pick(users)
	return emp
}

func (s *Seeder) createComments(ctx context.Context, employeeID uuid.UUID, users []models.User) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}
	created := 0
	for range s.opts.CommentsPerEmployee {
		rating := s.faker.Number(1, 5)
		c := &models.Comment{
			EmployeeID: employeeID,
			UserID:     *s.pick(users),
			Content:    s.faker.Sentence(s.faker.Number(6, 20)),
			Rating:     &rating,
			Moderation: s.moderation(),
		}
		if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
			return created, fmt.Errorf("create comment: %w", err)
		}
		created++
	}
	return created, nil
}

// moderation returns a mostly-approved status mix.
func (s *Seeder) moderation() models.Moderation {
	switch n := s.faker.Number(1, 10); {
	case n <= 7:
		at := time.Now().UTC()
		return models.Moderation{Status: models.StatusApproved, ModeratedAt: &at}
	case n <= 9:
		return models.Moderation{Status: models.StatusPending}
	default:
		at := time.Now().UTC()
		return models.Moderation{Status: models.StatusRejected, ModeratedAt: &at, RejectionReason: "Duplicate listing"}
	}
}

func (s *Seeder) pick(users []models.User) *uuid.UUID {
	if len(users) == 0 {
		return nil
	}
	id := users[s.faker.Number(0, len(users)-1)].ID
	return &id
}
