package memory

// In-memory storage used when DATABASE_URL is unset and throughout the test
// suite. Data lives for the process lifetime only.

// MemoryStorage implements storage.MealPlansStorage and storage.ReportsStorage.
type MemoryStorage struct {
	*mealPlansStorage
	*reportsStorage
}

// New creates an empty MemoryStorage.
func New() *MemoryStorage {
	return &MemoryStorage{
		mealPlansStorage: newMealPlansStorage(),
		reportsStorage:   newReportsStorage(),
	}
}

// Close is a no-op for memory storage.
func (s *MemoryStorage) Close() error {
	return nil
}
