package common

// Collection names known to the core.
const (
	UsersCollection = "users"
)

// RoleAdmin marks administrator accounts. Regular users carry no role.
const RoleAdmin = "ADMIN"
