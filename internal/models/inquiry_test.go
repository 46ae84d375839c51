package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInquiryStatusValid(t *testing.T) {
	for _, s := range []InquiryStatus{
		InquiryStatusPending, InquiryStatusResponded, InquiryStatusInDiscussion,
		InquiryStatusAccepted, InquiryStatusRejected, InquiryStatusCompleted,
	} {
		assert.True(t, s.Valid(), "expected %q to be valid", s)
	}

	assert.False(t, InquiryStatus("").Valid())
	assert.False(t, InquiryStatus("archived").Valid())
	assert.False(t, InquiryStatus("PENDING").Valid())
}

func TestAdvanceOnResponse(t *testing.T) {
	// Manufacturer answering a fresh inquiry opens the conversation.
	next, changed := AdvanceOnResponse(InquiryStatusPending, RoleManufacturer)
	assert.True(t, changed)
	assert.Equal(t, InquiryStatusResponded, next)

	// Buyer replying to a responded inquiry moves it into discussion.
	next, changed = AdvanceOnResponse(InquiryStatusResponded, RoleBuyer)
	assert.True(t, changed)
	assert.Equal(t, InquiryStatusInDiscussion, next)

	// Everything else stays put.
	cases := []struct {
		status InquiryStatus
		author Role
	}{
		{InquiryStatusPending, RoleBuyer},
		{InquiryStatusResponded, RoleManufacturer},
		{InquiryStatusInDiscussion, RoleBuyer},
		{InquiryStatusInDiscussion, RoleManufacturer},
		{InquiryStatusAccepted, RoleBuyer},
		{InquiryStatusRejected, RoleManufacturer},
		{InquiryStatusCompleted, RoleBuyer},
	}
	for _, tc := range cases {
		next, changed := AdvanceOnResponse(tc.status, tc.author)
		assert.False(t, changed, "%s responding at %s should not advance", tc.author, tc.status)
		assert.Equal(t, tc.status, next)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleManufacturer.Valid())
	assert.True(t, RoleBuyer.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}
