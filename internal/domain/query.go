package domain

// ActivityQuery identifies the scope of one report: one user's activity in
// one repository over one window. Credentials and host selection live in the
// gateway configuration, not here.
type ActivityQuery struct {
	Owner    string
	Repo     string
	Username string
	Window   Window
}

// FullRepo returns the owner-qualified repository name.
func (q ActivityQuery) FullRepo() string {
	return q.Owner + "/" + q.Repo
}
