package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/disaster-response-api/internal/models"
	"github.com/yukikurage/disaster-response-api/internal/repository"
)

type RequestServiceSuite struct {
	serviceSuite
}

func TestRequestServiceSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceSuite))
}

func (s *RequestServiceSuite) TestCreateRequestApprovedByAdmin() {
	admin := s.createUser("admin", models.RoleAdmin)
	requester := s.createUser("requester", models.RoleMember)

	request, err := s.requests.RequestCreate(requester, RequestCreateInput{
		Name:    "Alpha",
		Address: "123 St",
		Lat:     floatPtr(10.0),
		Long:    floatPtr(120.0),
	})
	s.Require().NoError(err)
	s.Equal(models.HouseholdRequestTypeCreate, request.Type)
	s.Equal(models.HouseholdRequestPending, request.Status)
	s.Nil(request.HouseholdID)

	approved, err := s.requests.Approve(admin, request.ID)
	s.Require().NoError(err)
	s.Equal(models.HouseholdRequestApproved, approved.Status)
	s.Require().NotNil(approved.HouseholdID)

	household, err := s.store.Households.FindByID(*approved.HouseholdID)
	s.Require().NoError(err)
	s.Equal("Alpha", household.Name)
	s.Equal(models.HouseholdStatusSafe, household.Status)
	s.Require().NotNil(household.UserID)
	s.Equal(requester.ID, *household.UserID)

	promoted := s.reloadUser(requester.ID)
	s.Require().NotNil(promoted.HouseholdID)
	s.Equal(household.ID, *promoted.HouseholdID)
	s.True(promoted.Roles.Equal(models.NewRoleSet(models.RoleLeader)))

	stored, err := s.store.Requests.FindByID(request.ID)
	s.Require().NoError(err)
	s.Equal(models.HouseholdRequestApproved, stored.Status)
	s.Require().NotNil(stored.HouseholdID)
	s.Equal(household.ID, *stored.HouseholdID)
	s.Require().NotNil(stored.DecidedByID)
	s.Equal(admin.ID, *stored.DecidedByID)
	s.NotNil(stored.DecidedAt)

	var households int64
	s.Require().NoError(s.db.Model(&models.Household{}).Count(&households).Error)
	s.Equal(int64(1), households)

	s.Equal([]string{"Submitted create request", "Approved request"}, s.activityActions())
}

func (s *RequestServiceSuite) TestCreateRequestValidation() {
	requester := s.createUser("requester", models.RoleMember)

	_, err := s.requests.RequestCreate(requester, RequestCreateInput{Name: "Alpha", Address: "x", Lat: floatPtr(-91)})

	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "lat")
	s.Contains(verr.Fields, "long")
}

func (s *RequestServiceSuite) TestJoinRequestApprovedByLeaderKeepsRole() {
	admin := s.createUser("admin", models.RoleAdmin)
	leader := s.createUser("leader", models.RoleMember)
	requester := s.createUser("requester", models.RoleMember)
	household := s.createLedHousehold(admin, "Alpha", leader)

	request, err := s.requests.RequestJoin(requester, household.ID)
	s.Require().NoError(err)
	s.Equal(models.HouseholdRequestTypeJoin, request.Type)
	s.Nil(request.Meta)

	_, err = s.requests.Approve(leader, request.ID)
	s.Require().NoError(err)

	joined := s.reloadUser(requester.ID)
	s.Require().NotNil(joined.HouseholdID)
	s.Equal(household.ID, *joined.HouseholdID)
	s.True(joined.Roles.Equal(models.NewRoleSet(models.RoleMember)))
	s.True(s.reloadUser(leader.ID).HasRole(models.RoleLeader))
}

func (s *RequestServiceSuite) TestDuplicatePendingJoinIsRejected() {
	admin := s.createUser("admin", models.RoleAdmin)
	leader := s.createUser("leader", models.RoleMember)
	requester := s.createUser("requester", models.RoleMember)
	household := s.createLedHousehold(admin, "Alpha", leader)

	_, err := s.requests.RequestJoin(requester, household.ID)
	s.Require().NoError(err)

	_, err = s.requests.RequestJoin(requester, household.ID)
	s.ErrorIs(err, ErrDuplicatePendingRequest)
}

func (s *RequestServiceSuite) TestJoinRequestRules() {
	admin := s.createUser("admin", models.RoleAdmin)
	leader := s.createUser("leader", models.RoleMember)
	otherLeader := s.createUser("other-leader", models.RoleMember)
	household := s.createLedHousehold(admin, "Alpha", leader)
	s.createLedHousehold(admin, "Bravo", otherLeader)

	_, err := s.requests.RequestJoin(otherLeader, household.ID)
	s.ErrorIs(err, ErrLeaderCannotJoin)

	member := s.createUser("member", models.RoleMember)
	_, err = s.requests.RequestJoin(member, 9999)
	s.ErrorIs(err, ErrHouseholdNotFound)

	s.attach(member, household.ID)
	_, err = s.requests.RequestJoin(member, household.ID)
	var verr *ValidationError
	s.ErrorAs(err, &verr)

	_, err = s.requests.RequestCreate(leader, RequestCreateInput{Name: "Charlie", Address: "x", Lat: floatPtr(1), Long: floatPtr(1)})
	s.ErrorIs(err, ErrAlreadyLeader)
}

func (s *RequestServiceSuite) TestDecidedRequestCannotBeDecidedAgain() {
	admin := s.createUser("admin", models.RoleAdmin)
	requester := s.createUser("requester", models.RoleMember)

	request, err := s.requests.RequestCreate(requester, RequestCreateInput{Name: "Alpha", Address: "x", Lat: floatPtr(1), Long: floatPtr(1)})
	s.Require().NoError(err)

	_, err = s.requests.Approve(admin, request.ID)
	s.Require().NoError(err)

	_, err = s.requests.Approve(admin, request.ID)
	s.ErrorIs(err, ErrRequestNotPending)
	_, err = s.requests.Deny(admin, request.ID)
	s.ErrorIs(err, ErrRequestNotPending)

	var households int64
	s.Require().NoError(s.db.Model(&models.Household{}).Count(&households).Error)
	s.Equal(int64(1), households)
}

func (s *RequestServiceSuite) TestStaleCreateApprovalRollsBack() {
	admin := s.createUser("admin", models.RoleAdmin)
	requester := s.createUser("requester", models.RoleMember)

	request, err := s.requests.RequestCreate(requester, RequestCreateInput{Name: "Alpha", Address: "x", Lat: floatPtr(1), Long: floatPtr(1)})
	s.Require().NoError(err)

	// Another decider denied it between load and claim.
	s.Require().NoError(s.db.Model(&models.HouseholdRequest{}).
		Where("id = ?", request.ID).
		Update("status", models.HouseholdRequestDenied).Error)

	_, err = s.requests.Approve(admin, request.ID)
	s.ErrorIs(err, ErrRequestNotPending)

	var households int64
	s.Require().NoError(s.db.Model(&models.Household{}).Count(&households).Error)
	s.Zero(households)

	unchanged := s.reloadUser(requester.ID)
	s.Nil(unchanged.HouseholdID)
	s.False(unchanged.HasRole(models.RoleLeader))
}

func (s *RequestServiceSuite) TestDenyHasNoSideEffects() {
	admin := s.createUser("admin", models.RoleAdmin)
	leader := s.createUser("leader", models.RoleMember)
	requester := s.createUser("requester", models.RoleMember)
	household := s.createLedHousehold(admin, "Alpha", leader)

	request, err := s.requests.RequestJoin(requester, household.ID)
	s.Require().NoError(err)

	denied, err := s.requests.Deny(leader, request.ID)
	s.Require().NoError(err)
	s.Equal(models.HouseholdRequestDenied, denied.Status)
	s.Nil(s.reloadUser(requester.ID).HouseholdID)
	s.Contains(s.activityActions(), "Denied request")
}

func (s *RequestServiceSuite) TestDecisionAuthorization() {
	admin := s.createUser("admin", models.RoleAdmin)
	leader := s.createUser("leader", models.RoleMember)
	otherLeader := s.createUser("other-leader", models.RoleMember)
	requester := s.createUser("requester", models.RoleMember)
	household := s.createLedHousehold(admin, "Alpha", leader)
	s.createLedHousehold(admin, "Bravo", otherLeader)

	join, err := s.requests.RequestJoin(requester, household.ID)
	s.Require().NoError(err)
	create, err := s.requests.RequestCreate(requester, RequestCreateInput{Name: "Charlie", Address: "x", Lat: floatPtr(1), Long: floatPtr(1)})
	s.Require().NoError(err)

	_, err = s.requests.Approve(otherLeader, join.ID)
	s.ErrorIs(err, ErrForbidden)
	_, err = s.requests.Approve(leader, create.ID)
	s.ErrorIs(err, ErrForbidden)
	_, err = s.requests.Deny(requester, join.ID)
	s.ErrorIs(err, ErrForbidden)
	_, err = s.requests.Approve(admin, 9999)
	s.ErrorIs(err, ErrRequestNotFound)

	stored, err := s.store.Requests.FindByID(join.ID)
	s.Require().NoError(err)
	s.True(stored.IsPending())
}

func (s *RequestServiceSuite) TestListPendingScopes() {
	admin := s.createUser("admin", models.RoleAdmin)
	leader := s.createUser("leader", models.RoleMember)
	first := s.createUser("first", models.RoleMember)
	second := s.createUser("second", models.RoleMember)
	household := s.createLedHousehold(admin, "Alpha", leader)

	_, err := s.requests.RequestJoin(first, household.ID)
	s.Require().NoError(err)
	_, err = s.requests.RequestCreate(second, RequestCreateInput{Name: "Bravo", Address: "x", Lat: floatPtr(1), Long: floatPtr(1)})
	s.Require().NoError(err)

	all, total, err := s.requests.ListPending(PendingRequestsInput{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(all, 2)

	mine, _, err := s.requests.ListPending(PendingRequestsInput{UserID: &second.ID})
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(models.HouseholdRequestTypeCreate, mine[0].Type)
}

func (s *RequestServiceSuite) TestDecidedJoinRequestCannotBeDecidedAgain() {
	admin := s.createUser("admin", models.RoleAdmin)
	leader := s.createUser("leader", models.RoleMember)
	joiner := s.createUser("joiner", models.RoleMember)
	household := s.createLedHousehold(admin, "Alpha", leader)

	request, err := s.requests.RequestJoin(joiner, household.ID)
	s.Require().NoError(err)
	_, err = s.requests.Approve(admin, request.ID)
	s.Require().NoError(err)

	// the household disappears after the approval
	s.Require().NoError(s.households.DeleteHousehold(admin, household.ID))

	_, err = s.requests.Approve(admin, request.ID)
	s.ErrorIs(err, ErrRequestNotPending)
	_, err = s.requests.Deny(admin, request.ID)
	s.ErrorIs(err, ErrRequestNotPending)
}

func (s *RequestServiceSuite) TestSecondCreateRequestForSameUserIsRejected() {
	admin := s.createUser("admin", models.RoleAdmin)
	requester := s.createUser("requester", models.RoleMember)

	first, err := s.requests.RequestCreate(requester, RequestCreateInput{Name: "Alpha", Address: "x", Lat: floatPtr(1), Long: floatPtr(1)})
	s.Require().NoError(err)
	second, err := s.requests.RequestCreate(requester, RequestCreateInput{Name: "Bravo", Address: "y", Lat: floatPtr(2), Long: floatPtr(2)})
	s.Require().NoError(err)

	approved, err := s.requests.Approve(admin, first.ID)
	s.Require().NoError(err)

	_, err = s.requests.Approve(admin, second.ID)
	s.ErrorIs(err, ErrAlreadyLeader)

	var households int64
	s.Require().NoError(s.db.Model(&models.Household{}).Count(&households).Error)
	s.Equal(int64(1), households)

	leader := s.reloadUser(requester.ID)
	s.Require().NotNil(leader.HouseholdID)
	s.Equal(*approved.HouseholdID, *leader.HouseholdID)

	pending, err := s.store.Requests.FindByID(second.ID)
	s.Require().NoError(err)
	s.True(pending.IsPending())
}

func (s *RequestServiceSuite) TestCreateApprovalWithStaleRequesterRollsBack() {
	admin := s.createUser("admin", models.RoleAdmin)
	requester := s.createUser("requester", models.RoleMember)

	first, err := s.requests.RequestCreate(requester, RequestCreateInput{Name: "Alpha", Address: "x", Lat: floatPtr(1), Long: floatPtr(1)})
	s.Require().NoError(err)
	second, err := s.requests.RequestCreate(requester, RequestCreateInput{Name: "Bravo", Address: "y", Lat: floatPtr(2), Long: floatPtr(2)})
	s.Require().NoError(err)

	// a concurrent approval read the requester before the first one committed
	stale := s.reloadUser(requester.ID)
	_, err = s.requests.Approve(admin, first.ID)
	s.Require().NoError(err)

	err = s.store.Transaction(func(tx *repository.Store) error {
		request, err := loadDecidable(tx, admin, second.ID)
		if err != nil {
			return err
		}
		return approveCreate(tx, admin, request, stale)
	})
	s.ErrorIs(err, ErrAlreadyLeader)

	var households int64
	s.Require().NoError(s.db.Model(&models.Household{}).Count(&households).Error)
	s.Equal(int64(1), households)

	pending, err := s.store.Requests.FindByID(second.ID)
	s.Require().NoError(err)
	s.True(pending.IsPending())
}

func (s *RequestServiceSuite) TestJoinApprovalWithStaleRequesterRollsBack() {
	admin := s.createUser("admin", models.RoleAdmin)
	leader := s.createUser("leader", models.RoleMember)
	joiner := s.createUser("joiner", models.RoleMember)
	household := s.createLedHousehold(admin, "Alpha", leader)

	request, err := s.requests.RequestJoin(joiner, household.ID)
	s.Require().NoError(err)

	// the joiner was made leader of another household after being read
	stale := s.reloadUser(joiner.ID)
	s.createLedHousehold(admin, "Bravo", joiner)

	err = s.store.Transaction(func(tx *repository.Store) error {
		loaded, err := loadDecidable(tx, admin, request.ID)
		if err != nil {
			return err
		}
		return approveJoin(tx, admin, loaded, stale)
	})
	s.ErrorIs(err, ErrLeaderCannotJoin)

	pending, err := s.store.Requests.FindByID(request.ID)
	s.Require().NoError(err)
	s.True(pending.IsPending())
	s.NotEqual(household.ID, *s.reloadUser(joiner.ID).HouseholdID)
}
