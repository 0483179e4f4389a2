// Package query exposes users, projects and logs as a read-only GraphQL API.
package query

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"devlog-backend/internal/domains/devlog"
	"devlog-backend/internal/domains/project"
	"devlog-backend/internal/domains/user"
)

// Services are the read paths the schema resolves through
type Services struct {
	Users    user.Service
	Projects project.Service
	Logs     devlog.Service
}

type resolver struct {
	Services
}

// NewSchema builds the schema with root fields logs and projects
func NewSchema(s Services) (graphql.Schema, error) {
	r := &resolver{Services: s}

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: userField(func(u *user.User) interface{} { return u.ID.String() })},
			"username":  &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: userField(func(u *user.User) interface{} { return u.Username })},
			"firstName": &graphql.Field{Type: graphql.String, Resolve: userField(func(u *user.User) interface{} { return u.FirstName })},
			"lastName":  &graphql.Field{Type: graphql.String, Resolve: userField(func(u *user.User) interface{} { return u.LastName })},
		},
	})

	projectType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Project",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: projectField(func(p *project.Project) interface{} { return p.ID.String() })},
			"slug":        &graphql.Field{Type: graphql.String, Resolve: projectField(func(p *project.Project) interface{} { return p.Slug })},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: projectField(func(p *project.Project) interface{} { return p.Name })},
			"description": &graphql.Field{Type: graphql.String, Resolve: projectField(func(p *project.Project) interface{} { return p.Description })},
			"admin": &graphql.Field{
				Type:    userType,
				Resolve: r.resolveProjectAdmin,
			},
			"contributors": &graphql.Field{
				Type:    graphql.NewList(userType),
				Resolve: r.resolveProjectContributors,
			},
		},
	})

	logType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Log",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: logField(func(l *devlog.Log) interface{} { return l.ID.String() })},
			"slug":      &graphql.Field{Type: graphql.String, Resolve: logField(func(l *devlog.Log) interface{} { return l.Slug })},
			"date":      &graphql.Field{Type: graphql.DateTime, Resolve: logField(func(l *devlog.Log) interface{} { return l.Date })},
			"content":   &graphql.Field{Type: graphql.String, Resolve: logField(func(l *devlog.Log) interface{} { return l.Content })},
			"important": &graphql.Field{Type: graphql.Boolean, Resolve: logField(func(l *devlog.Log) interface{} { return l.Important })},
			"author": &graphql.Field{
				Type:    userType,
				Resolve: r.resolveLogAuthor,
			},
			"project": &graphql.Field{
				Type:    projectType,
				Resolve: r.resolveLogProject,
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"logs": &graphql.Field{
				Type: graphql.NewList(logType),
				Args: graphql.FieldConfigArgument{
					"project":   &graphql.ArgumentConfig{Type: graphql.String, Description: "project slug or id"},
					"important": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: r.resolveLogs,
			},
			"projects": &graphql.Field{
				Type:    graphql.NewList(projectType),
				Resolve: r.resolveProjects,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

// ========================================
// FIELD ACCESSORS
// ========================================

func userField(get func(*user.User) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		u, ok := p.Source.(*user.User)
		if !ok {
			return nil, fmt.Errorf("unexpected user source %T", p.Source)
		}
		return get(u), nil
	}
}

func projectField(get func(*project.Project) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		pr, ok := p.Source.(*project.Project)
		if !ok {
			return nil, fmt.Errorf("unexpected project source %T", p.Source)
		}
		return get(pr), nil
	}
}

func logField(get func(*devlog.Log) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		l, ok := p.Source.(*devlog.Log)
		if !ok {
			return nil, fmt.Errorf("unexpected log source %T", p.Source)
		}
		return get(l), nil
	}
}

// ========================================
// RESOLVERS
// ========================================

func (r *resolver) resolveProjects(p graphql.ResolveParams) (interface{}, error) {
	projects, err := r.Projects.List(p.Context)
	if err != nil {
		return nil, err
	}

	out := make([]*project.Project, len(projects))
	for i := range projects {
		out[i] = &projects[i]
	}
	return out, nil
}

func (r *resolver) resolveLogs(p graphql.ResolveParams) (interface{}, error) {
	var filter devlog.LogFilter

	if ref, ok := p.Args["project"].(string); ok && ref != "" {
		pr, err := r.findProject(p.Context, ref)
		if err != nil {
			return nil, err
		}
		filter.ProjectID = &pr.ID
	}
	if important, ok := p.Args["important"].(bool); ok {
		filter.ImportantOnly = important
	}

	logs, err := r.Logs.List(p.Context, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*devlog.Log, len(logs))
	for i := range logs {
		out[i] = &logs[i]
	}
	return out, nil
}

func (r *resolver) findProject(ctx context.Context, ref string) (*project.Project, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return r.Projects.GetByID(ctx, id)
	}
	return r.Projects.GetBySlug(ctx, ref)
}

func (r *resolver) resolveProjectAdmin(p graphql.ResolveParams) (interface{}, error) {
	pr, ok := p.Source.(*project.Project)
	if !ok {
		return nil, fmt.Errorf("unexpected project source %T", p.Source)
	}
	return r.Users.GetByID(p.Context, pr.AdminID)
}

func (r *resolver) resolveProjectContributors(p graphql.ResolveParams) (interface{}, error) {
	pr, ok := p.Source.(*project.Project)
	if !ok {
		return nil, fmt.Errorf("unexpected project source %T", p.Source)
	}

	out := make([]*user.User, 0, len(pr.ContributorIDs))
	for _, id := range pr.ContributorIDs {
		u, err := r.Users.GetByID(p.Context, id)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *resolver) resolveLogAuthor(p graphql.ResolveParams) (interface{}, error) {
	l, ok := p.Source.(*devlog.Log)
	if !ok {
		return nil, fmt.Errorf("unexpected log source %T", p.Source)
	}
	return r.Users.GetByID(p.Context, l.AuthorID)
}

func (r *resolver) resolveLogProject(p graphql.ResolveParams) (interface{}, error) {
	l, ok := p.Source.(*devlog.Log)
	if !ok {
		return nil, fmt.Errorf("unexpected log source %T", p.Source)
	}
	return r.Projects.GetByID(p.Context, l.ProjectID)
}
