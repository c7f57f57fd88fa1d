// internal/service/group/service.go
package group

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ezwallet-service/internal/domain/group"
	"ezwallet-service/internal/domain/user"
	xerrors "ezwallet-service/internal/pkg/errors"

	"go.uber.org/zap"
)

var (
	ErrMissingAttributes = xerrors.BadRequest("request body does not contain all the necessary attributes")
	ErrMissingName       = xerrors.BadRequest("the request body does not contain all the necessary attributes")
	ErrEmptyName         = xerrors.BadRequest("the group name passed in the request body is an empty string")
	ErrInvalidName       = xerrors.BadRequest("invalid name")
	ErrNameTaken         = xerrors.BadRequest("Group name already used")
	ErrCallerInGroup     = xerrors.BadRequest("User calling already in a group")
	ErrGroupNotFound     = xerrors.BadRequest("Group does not exist")
	ErrOneMemberGroup    = xerrors.BadRequest("Can't remove members from a group containing only one member")

	errEmptyMemberEmail  = xerrors.BadRequest("one or more emails are empty strings")
	errEmptyAddEmail     = xerrors.BadRequest("one or more emails are an empty string")
	errBadEmailFormat    = xerrors.BadRequest("not all emails have the right format")
	errNoUsableCreatees  = xerrors.BadRequest("all the `memberEmails` either do not exist or are already in a group")
	errNoUsableAdditions = xerrors.BadRequest("all the `emails` either do not exist or are already in a group")
	errNoUsableRemovals  = xerrors.BadRequest("all the `emails` either do not exist or are not in the group")
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

type GroupRepo interface {
	Create(ctx context.Context, g *group.Group) error
	FindByName(ctx context.Context, name string) (*group.Group, error)
	FindByMemberEmail(ctx context.Context, email string) (*group.Group, error)
	FindAll(ctx context.Context) ([]group.Group, error)
	ReplaceMembers(ctx context.Context, name string, members []group.Member) error
	Delete(ctx context.Context, name string) error
}

type Service struct {
	groups GroupRepo
	users  UserRepo
	logger *zap.Logger
}

func NewService(groups GroupRepo, users UserRepo, logger *zap.Logger) *Service {
	return &Service{
		groups: groups,
		users:  users,
		logger: logger,
	}
}

// Create builds a new group. The caller joins automatically when their
// email is not among the candidates; candidate emails that belong to no
// account or to another group are reported back, not added.
func (s *Service) Create(ctx context.Context, callerEmail string, req *group.CreateRequest) (*group.CreateResponse, error) {
	if req.Name == nil || req.MemberEmails == nil {
		return nil, ErrMissingAttributes
	}
	name := *req.Name
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	if _, err := s.groups.FindByName(ctx, name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check group name: %w", err)
	}

	if _, err := s.groups.FindByMemberEmail(ctx, callerEmail); err == nil {
		return nil, ErrCallerInGroup
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check caller membership: %w", err)
	}

	emails := req.MemberEmails
	if !contains(emails, callerEmail) {
		emails = append(emails, callerEmail)
	}

	var (
		members         []group.Member
		alreadyInGroup  []string
		membersNotFound []string
	)
	for _, e := range emails {
		if strings.TrimSpace(e) == "" {
			return nil, errEmptyMemberEmail
		}
		if !emailRegex.MatchString(e) {
			return nil, errBadEmailFormat
		}

		u, err := s.users.FindByEmail(ctx, e)
		if errors.Is(err, xerrors.ErrNotFound) {
			membersNotFound = append(membersNotFound, e)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		if _, err := s.groups.FindByMemberEmail(ctx, e); err == nil {
			alreadyInGroup = append(alreadyInGroup, e)
			continue
		} else if !errors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		members = append(members, group.Member{Email: e, UserID: u.ID})
	}

	// Only the caller survived the checks: every requested member is
	// unknown or taken.
	if len(members) == 1 {
		return nil, errNoUsableCreatees
	}

	g := &group.Group{Name: name, Members: members}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("group created",
		zap.String("name", g.Name),
		zap.Int("members", len(g.Members)),
	)
	return &group.CreateResponse{
		Group:           g.Info(),
		AlreadyInGroup:  emptyIfNil(alreadyInGroup),
		MembersNotFound: emptyIfNil(membersNotFound),
	}, nil
}

// List returns every group with its member emails.
func (s *Service) List(ctx context.Context) ([]group.Info, error) {
	all, err := s.groups.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	infos := make([]group.Info, 0, len(all))
	for i := range all {
		infos = append(infos, all[i].Info())
	}
	return infos, nil
}

// Lookup fetches one group by name.
func (s *Service) Lookup(ctx context.Context, name string) (*group.Group, error) {
	g, err := s.groups.FindByName(ctx, name)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return g, nil
}

// AddMembers joins the given emails to the group. Unknown emails and
// emails already in some group are reported back, not added.
func (s *Service) AddMembers(ctx context.Context, name string, emails []string) (*group.AddResponse, error) {
	g, err := s.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return nil, ErrMissingAttributes
	}

	var (
		added           []group.Member
		alreadyInGroup  []string
		membersNotFound []string
	)
	for _, e := range emails {
		if strings.TrimSpace(e) == "" {
			return nil, errEmptyAddEmail
		}
		if !emailRegex.MatchString(e) {
			return nil, errBadEmailFormat
		}

		u, err := s.users.FindByEmail(ctx, e)
		if errors.Is(err, xerrors.ErrNotFound) {
			membersNotFound = append(membersNotFound, e)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		if _, err := s.groups.FindByMemberEmail(ctx, e); err == nil {
			alreadyInGroup = append(alreadyInGroup, e)
			continue
		} else if !errors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		added = append(added, group.Member{Email: e, UserID: u.ID})
	}

	if len(emails) == len(alreadyInGroup)+len(membersNotFound) {
		return nil, errNoUsableAdditions
	}

	updated := append(append([]group.Member(nil), g.Members...), added...)
	if err := s.groups.ReplaceMembers(ctx, name, updated); err != nil {
		return nil, fmt.Errorf("failed to update members: %w", err)
	}
	g.Members = updated

	return &group.AddResponse{
		Group:           g.Info(),
		AlreadyInGroup:  emptyIfNil(alreadyInGroup),
		MembersNotFound: emptyIfNil(membersNotFound),
	}, nil
}

// RemoveMembers drops the given emails from the group. The group always
// keeps at least one member: when every member is listed for removal, the
// first one stays.
func (s *Service) RemoveMembers(ctx context.Context, name string, emails []string) (*group.RemoveResponse, error) {
	g, err := s.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(g.Members) == 1 {
		return nil, ErrOneMemberGroup
	}
	if len(emails) == 0 {
		return nil, ErrMissingAttributes
	}

	var (
		toRemove        []string
		notInGroup      []string
		membersNotFound []string
	)
	for _, e := range emails {
		if strings.TrimSpace(e) == "" {
			return nil, errEmptyMemberEmail
		}
		if !emailRegex.MatchString(e) {
			return nil, errBadEmailFormat
		}

		if _, err := s.users.FindByEmail(ctx, e); errors.Is(err, xerrors.ErrNotFound) {
			membersNotFound = append(membersNotFound, e)
			continue
		} else if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		if !g.HasMember(e) {
			notInGroup = append(notInGroup, e)
			continue
		}
		toRemove = append(toRemove, e)
	}

	if len(emails) == len(notInGroup)+len(membersNotFound) {
		return nil, errNoUsableRemovals
	}

	var remaining []group.Member
	if len(toRemove) == len(g.Members) {
		remaining = []group.Member{g.Members[0]}
	} else {
		for _, m := range g.Members {
			if !contains(toRemove, m.Email) {
				remaining = append(remaining, m)
			}
		}
	}
	if err := s.groups.ReplaceMembers(ctx, name, remaining); err != nil {
		return nil, fmt.Errorf("failed to update members: %w", err)
	}
	g.Members = remaining

	return &group.RemoveResponse{
		Group:           g.Info(),
		NotInGroup:      emptyIfNil(notInGroup),
		MembersNotFound: emptyIfNil(membersNotFound),
	}, nil
}

// Delete removes a group by name.
func (s *Service) Delete(ctx context.Context, req *group.DeleteRequest) (string, error) {
	if req.Name == nil {
		return "", ErrMissingName
	}
	name := *req.Name
	if strings.TrimSpace(name) == "" {
		return "", ErrInvalidName
	}

	if _, err := s.Lookup(ctx, name); err != nil {
		return "", err
	}
	if err := s.groups.Delete(ctx, name); err != nil {
		return "", fmt.Errorf("failed to delete group: %w", err)
	}

	s.logger.Info("group deleted", zap.String("name", name))
	return "Group deleted correctly", nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
