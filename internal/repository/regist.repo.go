package repository

import (
	engagementRepo "readafrik-checkout/internal/repository/engagement"
	notificationRepo "readafrik-checkout/internal/repository/notification"
	orderRepo "readafrik-checkout/internal/repository/order"
)

// IRepository is a container for all repository interfaces
type IRepository struct {
	Order        orderRepo.IRepository
	Engagement   engagementRepo.IRepository
	Notification notificationRepo.IGuard
}
