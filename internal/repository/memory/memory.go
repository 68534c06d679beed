package memory

import (
	"banking_core/internal/repository"
)

var (
	_ repository.AccountRepository     = (*AccountRepository)(nil)
	_ repository.CardRepository        = (*CardRepository)(nil)
	_ repository.CardTypeRepository    = (*CardTypeRepository)(nil)
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
	_ repository.CustomerRepository    = (*CustomerRepository)(nil)
)
