package graphql

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apimgr/community/src/models"
)

func TestRejectMembershipRequest(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	requester := env.seedUser(models.RoleUser)
	req := env.seedMembershipRequest(requester, org)

	snapshot, err := env.resolver.RejectMembershipRequest(env.ctxFor(admin), req.ID)
	if err != nil {
		t.Fatalf("RejectMembershipRequest: %v", err)
	}
	if snapshot.ID != req.ID || snapshot.UserID != requester.ID || snapshot.OrganizationID != org.ID {
		t.Errorf("snapshot = %+v, want copy of original request", snapshot)
	}

	if _, ok := env.requests.requests[req.ID]; ok {
		t.Error("request document still present after reject")
	}
	if got := env.orgs.orgs[org.ID].MembershipRequests; len(got) != 0 {
		t.Errorf("organization still references request: %v", got)
	}
	if got := env.users.users[requester.ID].MembershipRequests; len(got) != 0 {
		t.Errorf("user still references request: %v", got)
	}
}

func TestRejectMembershipRequest_NotAdmin(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	requester := env.seedUser(models.RoleUser)
	req := env.seedMembershipRequest(requester, org)
	outsider := env.seedUser(models.RoleUser)

	if _, err := env.resolver.RejectMembershipRequest(env.ctxFor(outsider), req.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("err = %v, want ErrNotAuthorized", err)
	}
	if _, ok := env.requests.requests[req.ID]; !ok {
		t.Error("request deleted despite authorization failure")
	}
}

func TestRejectMembershipRequest_SuperAdmin(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	requester := env.seedUser(models.RoleUser)
	req := env.seedMembershipRequest(requester, org)
	super := env.seedUser(models.RoleSuperAdmin)

	if _, err := env.resolver.RejectMembershipRequest(env.ctxFor(super), req.ID); err != nil {
		t.Fatalf("superadmin reject: %v", err)
	}
}

func TestRejectMembershipRequest_NotFound(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	env.seedOrganization(admin)

	_, err := env.resolver.RejectMembershipRequest(env.ctxFor(admin), primitive.NewObjectID())
	if !errors.Is(err, ErrMembershipRequestNotFound) {
		t.Errorf("err = %v, want ErrMembershipRequestNotFound", err)
	}
}

func TestRejectMembershipRequest_Unauthenticated(t *testing.T) {
	env := newTestEnv()
	_, err := env.resolver.RejectMembershipRequest(context.Background(), primitive.NewObjectID())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestSendMembershipRequest(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	requester := env.seedUser(models.RoleUser)

	req, err := env.resolver.SendMembershipRequest(env.ctxFor(requester), org.ID)
	if err != nil {
		t.Fatalf("SendMembershipRequest: %v", err)
	}
	if req.UserID != requester.ID || req.OrganizationID != org.ID {
		t.Errorf("request = %+v", req)
	}
	if got := env.orgs.orgs[org.ID].MembershipRequests; len(got) != 1 || got[0] != req.ID {
		t.Errorf("organization references = %v, want [%s]", got, req.ID.Hex())
	}
	if got := env.users.users[requester.ID].MembershipRequests; len(got) != 1 || got[0] != req.ID {
		t.Errorf("user references = %v, want [%s]", got, req.ID.Hex())
	}

	// A second request for the same organization is rejected.
	if _, err := env.resolver.SendMembershipRequest(env.ctxFor(requester), org.ID); !errors.Is(err, ErrRequestAlreadySent) {
		t.Errorf("duplicate err = %v, want ErrRequestAlreadySent", err)
	}
}

func TestSendMembershipRequest_Blocked(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	blocked := env.seedUser(models.RoleUser)
	org.BlockedUsers = append(org.BlockedUsers, blocked.ID)

	if _, err := env.resolver.SendMembershipRequest(env.ctxFor(blocked), org.ID); !errors.Is(err, ErrUserBlocked) {
		t.Errorf("err = %v, want ErrUserBlocked", err)
	}
}

func TestSendMembershipRequest_AlreadyMember(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	member := env.seedMember(org)

	if _, err := env.resolver.SendMembershipRequest(env.ctxFor(member), org.ID); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("err = %v, want ErrAlreadyMember", err)
	}
}

func TestAcceptMembershipRequest(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	requester := env.seedUser(models.RoleUser)
	req := env.seedMembershipRequest(requester, org)

	if _, err := env.resolver.AcceptMembershipRequest(env.ctxFor(admin), req.ID); err != nil {
		t.Fatalf("AcceptMembershipRequest: %v", err)
	}

	orgDoc := env.orgs.orgs[org.ID]
	if !orgDoc.IsMember(requester.ID) {
		t.Error("requester not added as member")
	}
	if len(orgDoc.MembershipRequests) != 0 {
		t.Errorf("organization still references request: %v", orgDoc.MembershipRequests)
	}
	userDoc := env.users.users[requester.ID]
	if len(userDoc.MembershipRequests) != 0 {
		t.Errorf("user still references request: %v", userDoc.MembershipRequests)
	}
	if len(userDoc.JoinedOrganizations) != 1 || userDoc.JoinedOrganizations[0] != org.ID {
		t.Errorf("joinedOrganizations = %v, want [%s]", userDoc.JoinedOrganizations, org.ID.Hex())
	}
	if _, ok := env.requests.requests[req.ID]; ok {
		t.Error("request document still present after accept")
	}
}

func TestCancelMembershipRequest(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	requester := env.seedUser(models.RoleUser)
	req := env.seedMembershipRequest(requester, org)

	if _, err := env.resolver.CancelMembershipRequest(env.ctxFor(requester), req.ID); err != nil {
		t.Fatalf("CancelMembershipRequest: %v", err)
	}
	if _, ok := env.requests.requests[req.ID]; ok {
		t.Error("request document still present after cancel")
	}
}

func TestCancelMembershipRequest_OnlyOwner(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(models.RoleUser)
	org := env.seedOrganization(admin)
	requester := env.seedUser(models.RoleUser)
	req := env.seedMembershipRequest(requester, org)

	// Not even the org admin can cancel on the requester's behalf.
	if _, err := env.resolver.CancelMembershipRequest(env.ctxFor(admin), req.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("err = %v, want ErrNotAuthorized", err)
	}
}
