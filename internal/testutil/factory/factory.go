package factory

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"devlog-backend/internal/domains/devlog"
	"devlog-backend/internal/domains/project"
	"devlog-backend/internal/domains/user"
)

var nonWord = regexp.MustCompile(`[^\w]+`)

// Factory creates persisted fixtures through the services of an Env
type Factory struct {
	env        *Env
	projectSeq atomic.Int64
}

func New(env *Env) *Factory {
	return &Factory{env: env}
}

// ========================================
// USERS
// ========================================

type userOptions struct {
	superuser bool
	project   *project.Project
}

type UserOption func(*userOptions)

// Superuser makes the user staff and superuser
func Superuser() UserOption {
	return func(o *userOptions) { o.superuser = true }
}

// InProject adds the new user to p's contributors
func InProject(p *project.Project) UserOption {
	return func(o *userOptions) { o.project = p }
}

// User registers a user with random first and last names.
// The username is "first.last" lowercased, suffixed on collision.
func (f *Factory) User(t testing.TB, opts ...UserOption) *user.User {
	t.Helper()

	o := userOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	ctx := context.Background()
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	base := strings.ToLower(nonWord.ReplaceAllString(first, "") + "." + nonWord.ReplaceAllString(last, ""))

	var (
		u   *user.User
		err error
	)
	for attempt := 0; attempt < 10; attempt++ {
		username := base
		if attempt > 0 {
			username = fmt.Sprintf("%s%d", base, attempt)
		}
		u, err = f.env.Users.Register(ctx, user.CreateUserRequest{
			Username:    username,
			FirstName:   first,
			LastName:    last,
			IsStaff:     o.superuser,
			IsSuperuser: o.superuser,
		})
		if !errors.Is(err, user.ErrDuplicateUsername) {
			break
		}
	}
	require.NoError(t, err)

	if o.project != nil {
		updated, err := f.env.Projects.AddContributors(ctx, o.project.ID, project.AddContributorsRequest{
			UserIDs: []uuid.UUID{u.ID},
		})
		require.NoError(t, err)
		*o.project = *updated
	}

	return u
}

// ========================================
// PROJECTS
// ========================================

type projectOptions struct {
	name         string
	admin        *user.User
	contributors []*user.User
}

type ProjectOption func(*projectOptions)

func WithName(name string) ProjectOption {
	return func(o *projectOptions) { o.name = name }
}

func WithAdmin(u *user.User) ProjectOption {
	return func(o *projectOptions) { o.admin = u }
}

func WithContributors(users ...*user.User) ProjectOption {
	return func(o *projectOptions) { o.contributors = append(o.contributors, users...) }
}

// Project creates "Project N" with a random description and a fresh admin
func (f *Factory) Project(t testing.TB, opts ...ProjectOption) *project.Project {
	t.Helper()

	o := projectOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = fmt.Sprintf("Project %d", f.projectSeq.Add(1))
	}
	if o.admin == nil {
		o.admin = f.User(t)
	}

	contributorIDs := make([]uuid.UUID, 0, len(o.contributors))
	for _, c := range o.contributors {
		contributorIDs = append(contributorIDs, c.ID)
	}

	p, err := f.env.Projects.Create(context.Background(), project.CreateProjectRequest{
		Name:           o.name,
		Description:    words(30, 200),
		AdminID:        o.admin.ID,
		ContributorIDs: contributorIDs,
	})
	require.NoError(t, err)
	return p
}

// ========================================
// LOGS
// ========================================

type logOptions struct {
	project   *project.Project
	author    *user.User
	content   string
	important bool
}

type LogOption func(*logOptions)

func ForProject(p *project.Project) LogOption {
	return func(o *logOptions) { o.project = p }
}

func ByAuthor(u *user.User) LogOption {
	return func(o *logOptions) { o.author = u }
}

func WithContent(content string) LogOption {
	return func(o *logOptions) { o.content = content }
}

func Important() LogOption {
	return func(o *logOptions) { o.important = true }
}

// Log creates a log by the project admin unless told otherwise
func (f *Factory) Log(t testing.TB, opts ...LogOption) *devlog.Log {
	t.Helper()

	l, err := f.TryLog(t, opts...)
	require.NoError(t, err)
	return l
}

// TryLog is Log returning the service error instead of failing the test
func (f *Factory) TryLog(t testing.TB, opts ...LogOption) (*devlog.Log, error) {
	t.Helper()

	o := logOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.project == nil {
		o.project = f.Project(t)
	}

	authorID := o.project.AdminID
	if o.author != nil {
		authorID = o.author.ID
	}
	if o.content == "" {
		o.content = words(5, devlog.MaxContentLength)
	}

	return f.env.Logs.Create(context.Background(), devlog.CreateLogRequest{
		ProjectID: o.project.ID,
		AuthorID:  authorID,
		Content:   o.content,
		Important: o.important,
	})
}

// words joins n lorem ipsum words, cut to at most limit characters
func words(n, limit int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = gofakeit.LoremIpsumWord()
	}
	s := strings.Join(parts, " ")
	if len(s) > limit {
		s = strings.TrimSpace(s[:limit])
	}
	return s
}
