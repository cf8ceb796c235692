package model

import (
	"github.com/saitejads/loanbook/internal/domain"
)

func LoanFromEntity(data *domain.Loan) Loan {
	return Loan{
		ID:              data.ID,
		Sno:             data.Sno,
		Section:         string(data.Section),
		Area:            data.Area,
		Day:             data.Day,
		Name:            data.Name,
		Address:         data.Address,
		PhoneNumber:     data.PhoneNumber,
		AlternativeNo:   data.AlternativeNo,
		Work:            data.Work,
		Guardian:        data.Guardian,
		ReferName:       data.ReferName,
		ReferNumber:     data.ReferNumber,
		GivenAmount:     data.GivenAmount,
		Paid:            data.Paid,
		InterestPercent: data.InterestPercent,
		Interest:        data.Interest,
		Tamount:         data.Tamount,
		GivenDate:       data.GivenDate,
		LastDate:        data.LastDate,
		AdditionalInfo:  data.AdditionalInfo,
		VerifiedBy:      data.VerifiedBy,
		VerifiedByNo:    data.VerifiedByNo,
	}
}

func LoanToEntity(data Loan) *domain.Loan {
	return &domain.Loan{
		ID:              data.ID,
		Sno:             data.Sno,
		Section:         domain.Section(data.Section),
		Area:            data.Area,
		Day:             data.Day,
		Name:            data.Name,
		Address:         data.Address,
		PhoneNumber:     data.PhoneNumber,
		AlternativeNo:   data.AlternativeNo,
		Work:            data.Work,
		Guardian:        data.Guardian,
		ReferName:       data.ReferName,
		ReferNumber:     data.ReferNumber,
		GivenAmount:     data.GivenAmount,
		Paid:            data.Paid,
		InterestPercent: data.InterestPercent,
		Interest:        data.Interest,
		Tamount:         data.Tamount,
		GivenDate:       data.GivenDate,
		LastDate:        data.LastDate,
		AdditionalInfo:  data.AdditionalInfo,
		VerifiedBy:      data.VerifiedBy,
		VerifiedByNo:    data.VerifiedByNo,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
		Installments:    InstallmentsToEntity(data.Installments),
	}
}

func LoansToEntity(data []Loan) []domain.Loan {
	loans := make([]domain.Loan, len(data))
	for i, l := range data {
		loans[i] = *LoanToEntity(l)
	}

	return loans
}

func InstallmentFromEntity(data *domain.Installment) Installment {
	return Installment{
		ID:     data.ID,
		LoanID: data.LoanID,
		Amount: data.Amount,
		Date:   data.Date,
	}
}

func InstallmentToEntity(data Installment) domain.Installment {
	return domain.Installment{
		ID:     data.ID,
		LoanID: data.LoanID,
		Amount: data.Amount,
		Date:   data.Date,
	}
}

func InstallmentsToEntity(data []Installment) []domain.Installment {
	installments := make([]domain.Installment, len(data))
	for i, entry := range data {
		installments[i] = InstallmentToEntity(entry)
	}

	return installments
}

func CashflowFromEntity(data *domain.Cashflow) Cashflow {
	return Cashflow{
		ID:     data.ID,
		Sno:    data.Sno,
		Date:   data.Date,
		Amount: data.Amount,
	}
}

func CashflowToEntity(data Cashflow) domain.Cashflow {
	return domain.Cashflow{
		ID:     data.ID,
		Sno:    data.Sno,
		Date:   data.Date,
		Amount: data.Amount,
	}
}

func CashflowsToEntity(data []Cashflow) []domain.Cashflow {
	entries := make([]domain.Cashflow, len(data))
	for i, entry := range data {
		entries[i] = CashflowToEntity(entry)
	}

	return entries
}

func BackupEntryFromEntity(data *domain.BackupEntry) BackupEntry {
	return BackupEntry{
		ID:     data.ID,
		Sno:    data.Sno,
		Name:   data.Name,
		Amount: data.Amount,
		Area:   data.Area,
	}
}

func BackupEntryToEntity(data BackupEntry) domain.BackupEntry {
	return domain.BackupEntry{
		ID:     data.ID,
		Sno:    data.Sno,
		Name:   data.Name,
		Amount: data.Amount,
		Area:   data.Area,
	}
}

func BackupEntriesToEntity(data []BackupEntry) []domain.BackupEntry {
	entries := make([]domain.BackupEntry, len(data))
	for i, entry := range data {
		entries[i] = BackupEntryToEntity(entry)
	}

	return entries
}

func UserFromEntity(data *domain.User) User {
	return User{
		ID:          data.ID,
		Username:    data.Username,
		Email:       data.Email,
		Password:    data.Password,
		Name:        data.Name,
		PhoneNo:     data.PhoneNo,
		Role:        string(data.Role),
		LinesHandle: data.LinesHandle,
	}
}

func UserToEntity(data User) *domain.User {
	return &domain.User{
		ID:          data.ID,
		Username:    data.Username,
		Email:       data.Email,
		Password:    data.Password,
		Name:        data.Name,
		PhoneNo:     data.PhoneNo,
		Role:        domain.Role(data.Role),
		LinesHandle: data.LinesHandle,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func UsersToEntity(data []User) []domain.User {
	users := make([]domain.User, len(data))
	for i, u := range data {
		users[i] = *UserToEntity(u)
	}

	return users
}
