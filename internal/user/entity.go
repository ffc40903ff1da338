// AngelaMos | 2026
// entity.go

package user

type User struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
}

const (
	RoleAdmin = "admin"
)
