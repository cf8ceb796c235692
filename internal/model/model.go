package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Loan represents the loans table
type Loan struct {
	ID              string     `gorm:"type:char(36);primaryKey" json:"loan_id"`
	Sno             int        `gorm:"not null;default:0;index:idx_loans_sno_section" json:"sno"`
	Section         string     `gorm:"type:varchar(10);not null;index:idx_loans_sno_section" json:"section"`
	Area            string     `gorm:"type:varchar(50);not null" json:"area"`
	Day             string     `gorm:"type:varchar(15)" json:"day"`
	Name            string     `gorm:"type:varchar(30);not null" json:"name"`
	Address         string     `gorm:"type:varchar(50);not null" json:"address"`
	PhoneNumber     string     `gorm:"type:varchar(15);not null" json:"phone_number"`
	AlternativeNo   string     `gorm:"type:varchar(15)" json:"alternative_no"`
	Work            string     `gorm:"type:varchar(30)" json:"work"`
	Guardian        string     `gorm:"type:varchar(30)" json:"guardian"`
	ReferName       string     `gorm:"type:varchar(30)" json:"refer_name"`
	ReferNumber     string     `gorm:"type:varchar(15)" json:"refer_number"`
	GivenAmount     float64    `gorm:"type:decimal(12,2);not null" json:"given_amount"`
	Paid            float64    `gorm:"type:decimal(12,2);not null;default:0" json:"paid"`
	InterestPercent float64    `gorm:"type:decimal(6,2);default:0" json:"interest_percent"`
	Interest        float64    `gorm:"type:decimal(12,2);default:0" json:"interest"`
	Tamount         float64    `gorm:"type:decimal(12,2);default:0" json:"tamount"`
	GivenDate       *time.Time `gorm:"type:date" json:"given_date"`
	LastDate        *time.Time `gorm:"type:date" json:"last_date"`
	AdditionalInfo  string     `gorm:"type:varchar(255)" json:"additional_info"`
	VerifiedBy      string     `gorm:"type:varchar(50)" json:"verified_by"`
	VerifiedByNo    string     `gorm:"type:varchar(25)" json:"verified_by_no"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Installments []Installment `gorm:"foreignKey:LoanID;references:ID;constraint:OnDelete:CASCADE" json:"installments,omitempty"`
}

// Installment represents the installments table. The unique index backs the
// one-installment-per-(loan, date) rule that the service also enforces.
type Installment struct {
	ID     uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	LoanID string    `gorm:"type:char(36);not null;uniqueIndex:idx_installments_loan_date" json:"loan_id"`
	Amount float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_installments_loan_date" json:"date"`
}

// Cashflow represents the cashflows table
type Cashflow struct {
	ID     string    `gorm:"type:char(36);primaryKey" json:"id"`
	Sno    int       `gorm:"not null" json:"sno"`
	Date   time.Time `gorm:"type:date;not null" json:"date"`
	Amount float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
}

// BackupEntry represents the backup_entries table
type BackupEntry struct {
	ID     string  `gorm:"type:char(36);primaryKey" json:"id"`
	Sno    int     `gorm:"not null" json:"sno"`
	Name   string  `gorm:"type:varchar(30);not null" json:"name"`
	Amount float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	Area   string  `gorm:"type:varchar(50);not null" json:"area"`
}

// User represents the users table
type User struct {
	ID          string                       `gorm:"type:char(36);primaryKey" json:"id"`
	Username    string                       `gorm:"type:varchar(25);not null;uniqueIndex" json:"username"`
	Email       string                       `gorm:"type:varchar(100)" json:"email"`
	Password    string                       `gorm:"type:varchar(100);not null" json:"-"`
	Name        string                       `gorm:"type:varchar(50);not null" json:"name"`
	PhoneNo     string                       `gorm:"type:varchar(15)" json:"phone_no"`
	Role        string                       `gorm:"type:varchar(10);default:'subadmin'" json:"role"`
	LinesHandle datatypes.JSONSlice[string]  `json:"lines_handle"`
	CreatedAt   time.Time                    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

func (Installment) TableName() string {
	return "installments"
}

func (Cashflow) TableName() string {
	return "cashflows"
}

func (BackupEntry) TableName() string {
	return "backup_entries"
}

func (User) TableName() string {
	return "users"
}

// Database migration function
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Loan{},
		&Installment{},
		&Cashflow{},
		&BackupEntry{},
		&User{},
	)
}
