package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fitr/internal/models"
	"fitr/internal/session"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// TestSession returns a session for user without a usable access token.
func TestSession(user *models.User) session.Session {
	return session.Session{UserID: user.ID, Email: user.Email}
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, userID, fmt.Sprintf("Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{UserID: userID, Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense of amount at the given time.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID string, amount float64, at time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Base:        models.Base{CreatedAt: at},
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      decimal.NewFromFloat(amount),
		Description: fmt.Sprintf("Expense %d", nextID()),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestBudget creates a budget for the period.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, period models.BudgetPeriod, amount float64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID: userID,
		Period: period,
		Amount: decimal.NewFromFloat(amount),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
