package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupByStatusKeepsFirstPerStatus(t *testing.T) {
	services := []AssetService{
		{ID: 1, Status: StatusPending},
		{ID: 2, Status: StatusPending},
		{ID: 3, Status: StatusCompleted},
		{ID: 4, Status: StatusInProgress},
		{ID: 5, Status: StatusCompleted},
	}

	out := DedupByStatus(services)
	assert.Len(t, out, 3)
	assert.Equal(t, uint64(1), out[0].ID)
	assert.Equal(t, uint64(3), out[1].ID)
	assert.Equal(t, uint64(4), out[2].ID)
}

func TestDedupByStatusEmpty(t *testing.T) {
	assert.Empty(t, DedupByStatus(nil))
}

func TestCountServiceCategories(t *testing.T) {
	services := []AssetService{
		{ID: 1, Status: StatusPending},
		{ID: 2, Status: StatusPending}, // duplicate status, counted once
		{ID: 3, Status: StatusInProgress},
		{ID: 4, Status: StatusCompleted},
		{ID: 5, Status: StatusCompleted},
	}

	upcoming, historic := CountServiceCategories(services)
	assert.Equal(t, 2, upcoming)
	assert.Equal(t, 1, historic)
}

func TestCountServiceCategoriesEmpty(t *testing.T) {
	upcoming, historic := CountServiceCategories(nil)
	assert.Zero(t, upcoming)
	assert.Zero(t, historic)
}

func TestValidOwnershipTypeIsRequired(t *testing.T) {
	assert.True(t, ValidOwnershipType(OwnershipOwned))
	assert.True(t, ValidOwnershipType(OwnershipFleet))
	// Unlike condition/availability, empty is not acceptable.
	assert.False(t, ValidOwnershipType(""))
	assert.False(t, ValidOwnershipType("Borrowed"))
}

func TestConditionAndAvailabilityAllowUnset(t *testing.T) {
	assert.True(t, ValidCondition(""))
	assert.True(t, ValidCondition(ConditionInRepair))
	assert.False(t, ValidCondition("Okayish"))

	assert.True(t, ValidAvailability(""))
	assert.True(t, ValidAvailability(AvailabilityInTransit))
	assert.False(t, ValidAvailability("Lost"))
}

func TestAllowedAttachmentName(t *testing.T) {
	allowed := []string{"manual.pdf", "report.DOCX", "photo.jpg", "photo.JPEG", "scan.png", "x.bmp", "sheet.xlsx", "notes.txt", "doc.rtf", "doc.odt"}
	for _, name := range allowed {
		assert.True(t, AllowedAttachmentName(name), name)
	}
	rejected := []string{"payload.exe", "archive.zip", "video.mp4", "noextension", "double.pdf.sh"}
	for _, name := range rejected {
		assert.False(t, AllowedAttachmentName(name), name)
	}
}

func TestAttachmentIsImage(t *testing.T) {
	assert.True(t, Attachment{FileType: "image/png"}.IsImage())
	assert.True(t, Attachment{FileType: "image/jpeg"}.IsImage())
	assert.False(t, Attachment{FileType: "application/pdf"}.IsImage())
	assert.False(t, Attachment{FileType: ""}.IsImage())
}

func TestValidBranch(t *testing.T) {
	for _, b := range Branches {
		assert.True(t, ValidBranch(b))
	}
	assert.False(t, ValidBranch("QM  Builders"))
	assert.False(t, ValidBranch(""))
}

func TestValidManualNotifyUnit(t *testing.T) {
	for _, u := range []string{"Days", "Weeks", "Months", "Years", "Kilometers", "Hours"} {
		assert.True(t, ValidManualNotifyUnit(u), u)
	}
	assert.False(t, ValidManualNotifyUnit("Fortnights"))
}
