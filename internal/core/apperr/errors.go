// Package apperr はドメイン横断のエラー分類と呼び出し元の情報を定義します。
package apperr

import "errors"

// 各パッケージのセンチネルエラーは以下のいずれかを %w でラップします。
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrIllegalState  = errors.New("illegal state transition")
	ErrDataIntegrity = errors.New("data integrity error")
	ErrPersistence   = errors.New("persistence error")
	ErrForbidden     = errors.New("forbidden")
)

// Actor は認証済みの呼び出し元です。認証自体は外部で行われます。
type Actor struct {
	EmployeeID string
	IsManager  bool
}

// RequireManager は manager 権限を持たない呼び出し元を拒否します。
func (a Actor) RequireManager() error {
	if !a.IsManager {
		return ErrForbidden
	}
	return nil
}

// Persistence はインフラ起因のエラーを ErrPersistence でラップします。
// nil や既に分類済みのエラーはそのまま返します。
func Persistence(err error) error {
	if err == nil || Classified(err) {
		return err
	}
	return errors.Join(ErrPersistence, err)
}

// Classified は err がいずれかの分類に属するかを返します。
func Classified(err error) bool {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrIllegalState, ErrDataIntegrity, ErrPersistence, ErrForbidden} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
