package users

type UserRepo interface {
	// Create stores a new user, failing with ErrDuplicateUser when the email is taken
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(ID string) (*User, error)
	List(offset, limit int) (UsersListResponse, error)
	// Search returns users whose email contains query
	Search(query string) ([]*User, error)
	Count() int
}
