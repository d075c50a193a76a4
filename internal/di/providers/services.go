package providers

import (
	"github.com/samber/do/v2"

	"github.com/folioapp/folio-server/internal/logger"
	"github.com/folioapp/folio-server/internal/service"
	"github.com/folioapp/folio-server/internal/store"
	"github.com/folioapp/folio-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	books := do.MustInvoke[*store.Books](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(books, validator, log.Logger), nil
}

// ProvideAccountService provides the account service.
func ProvideAccountService(i do.Injector) (*service.AccountService, error) {
	bookService := do.MustInvoke[*service.BookService](i)
	profiles := do.MustInvoke[*store.Profiles](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAccountService(bookService, profiles, log.Logger), nil
}
