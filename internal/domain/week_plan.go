package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Weekday labels use three-letter abbreviations, matching the mobile client.
type Weekday string

const (
	DayMon Weekday = "Mon"
	DayTue Weekday = "Tue"
	DayWed Weekday = "Wed"
	DayThu Weekday = "Thu"
	DayFri Weekday = "Fri"
	DaySat Weekday = "Sat"
	DaySun Weekday = "Sun"
)

// MealSlot is the meal position within a day.
type MealSlot string

const (
	SlotBreakfast MealSlot = "BREAKFAST"
	SlotLunch     MealSlot = "LUNCH"
	SlotDinner    MealSlot = "DINNER"
	SlotSnack     MealSlot = "SNACK"
	SlotDessert   MealSlot = "DESSERT"
)

// MealAssignment binds a (day, slot) to a recipe within one week plan.
type MealAssignment struct {
	RecipeID   primitive.ObjectID `bson:"recipeId" json:"recipeId"`
	Day        Weekday            `bson:"day" json:"day"`
	Slot       MealSlot           `bson:"slot" json:"slot"`
	IsLeftover bool               `bson:"isLeftover" json:"isLeftover"`
}

// WeekPlan holds one group's meal assignments for one calendar week,
// keyed by (group, weekStartDate). Assignments are embedded and replaced
// wholesale on every save; there is no incremental patching.
type WeekPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID       primitive.ObjectID `bson:"groupId" json:"groupId"`
	WeekStartDate time.Time          `bson:"weekStartDate" json:"weekStartDate"` // Monday, UTC midnight
	Assignments   []MealAssignment   `bson:"assignments" json:"assignments"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
