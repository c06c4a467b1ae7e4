package domain

import "time"

// Food is a nutrition reference row. System foods are managed by nakes;
// parents may add their own (IsSystem=false).
type Food struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Icon         *string   `json:"icon"`
	ServingSize  float64   `json:"serving_size"`
	Calories     float64   `json:"calories"`
	Protein      float64   `json:"protein"`
	Fat          float64   `json:"fat"`
	Carbohydrate float64   `json:"carbohydrate"`
	Fiber        *float64  `json:"fiber"`
	Sugar        *float64  `json:"sugar"`
	MinAgeMonths *int      `json:"min_age_months"`
	MaxAgeMonths *int      `json:"max_age_months"`
	IsActive     bool      `json:"is_active"`
	IsSystem     bool      `json:"is_system"`
	CreatedBy    *int64    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Meal times.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// FoodLog is one meal of one day; (child, date, meal) is unique.
type FoodLog struct {
	ID                int64         `json:"id"`
	ChildID           int64         `json:"child_id"`
	LogDate           time.Time     `json:"log_date"`
	MealTime          string        `json:"meal_time"`
	TotalCalories     float64       `json:"total_calories"`
	TotalProtein      float64       `json:"total_protein"`
	TotalFat          float64       `json:"total_fat"`
	TotalCarbohydrate float64       `json:"total_carbohydrate"`
	Notes             *string       `json:"notes"`
	Items             []FoodLogItem `json:"items"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// FoodLogItem holds the nutrition of one food scaled to the eaten amount.
type FoodLogItem struct {
	ID           int64   `json:"id"`
	FoodLogID    int64   `json:"food_log_id"`
	FoodID       int64   `json:"food_id"`
	FoodName     string  `json:"food_name,omitempty"`
	Quantity     float64 `json:"quantity"`
	ServingSize  float64 `json:"serving_size"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
}

// ScaleFrom fills the item's nutrition from food: food × (serving/food serving) × quantity.
func (it *FoodLogItem) ScaleFrom(food *Food) {
	multiplier := 0.0
	if food.ServingSize > 0 {
		multiplier = it.ServingSize / food.ServingSize * it.Quantity
	}
	it.Calories = food.Calories * multiplier
	it.Protein = food.Protein * multiplier
	it.Fat = food.Fat * multiplier
	it.Carbohydrate = food.Carbohydrate * multiplier
}

// RecalculateTotals sums the items into the log totals.
func (l *FoodLog) RecalculateTotals() {
	l.TotalCalories, l.TotalProtein, l.TotalFat, l.TotalCarbohydrate = 0, 0, 0, 0
	for _, it := range l.Items {
		l.TotalCalories += it.Calories
		l.TotalProtein += it.Protein
		l.TotalFat += it.Fat
		l.TotalCarbohydrate += it.Carbohydrate
	}
}

// NutritionTotals is a day's (or period's) summed intake.
type NutritionTotals struct {
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbohydrate float64 `json:"carbohydrate"`
	Fat          float64 `json:"fat"`
}

// DailyNutrition is NutritionTotals for a single date.
type DailyNutrition struct {
	Date time.Time
	NutritionTotals
}
