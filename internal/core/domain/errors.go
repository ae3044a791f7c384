package domain

import "errors"

var (
	// ErrBlockedBySite - источник отдал страницу проверки (captcha / access denied)
	// вместо выдачи. Повторять запрос в той же сессии бессмысленно.
	ErrBlockedBySite = errors.New("blocked by site: challenge page detected")

	// ErrPaginationExhausted - активной кнопки следующей страницы больше нет.
	// Это нормальное завершение короткой выдачи, а не сбой.
	ErrPaginationExhausted = errors.New("pagination exhausted: no active next-page control")

	// ErrNoListingsFound - на странице выдачи не дождались ни одной карточки.
	ErrNoListingsFound = errors.New("no listing cards found on results page")
)
