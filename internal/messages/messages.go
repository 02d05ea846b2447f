package messages

import (
	"fmt"
	"strings"

	"github.com/ormatov/chatkeeper/internal/i18n"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

// RankEmoji maps a derived rating to its league medal.
func RankEmoji(rating int64) string {
	switch {
	case rating < 100:
		return "🥉"
	case rating < 500:
		return "🥈"
	case rating < 1000:
		return "🥇"
	default:
		return "🏆"
	}
}

func StartWelcome(lang i18n.Lang, name string) string {
	if lang == i18n.EN {
		return fmt.Sprintf("👋 <b>Hello, %s!</b>\nI keep your chats and channels in order.", Escape(name))
	}
	return fmt.Sprintf("👋 <b>Привет, %s!</b>\nЯ слежу за порядком в ваших чатах и каналах.", Escape(name))
}

func Help(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "❓ <b>Commands</b>\n" +
			"/start — register and show the welcome screen\n" +
			"/menu — main menu\n" +
			"/status — bot status\n" +
			"/help — this message"
	}
	return "❓ <b>Команды</b>\n" +
		"/start — регистрация и приветствие\n" +
		"/menu — главное меню\n" +
		"/status — состояние бота\n" +
		"/help — это сообщение"
}

func UnknownCommand(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "🤔 <b>Unknown command</b>\nTry /help."
	}
	return "🤔 <b>Неизвестная команда</b>\nПопробуйте /help."
}

func NoPermission(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "❌ You are not allowed to do that."
	}
	return "❌ У вас нет прав для выполнения этой команды."
}

func ErrorDefault(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "🚫 <b>Error</b>\nPlease try again."
	}
	return "🚫 <b>Ошибка</b>\nПопробуйте ещё раз."
}

func NotFound(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "🔍 Nothing found."
	}
	return "🔍 Ничего не найдено."
}

func MainMenuText(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "📋 <b>Main menu</b>"
	}
	return "📋 <b>Главное меню</b>"
}

func AdminMenuText(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "👑 <b>Admin panel</b>"
	}
	return "👑 <b>Панель администратора</b>"
}

func OverallStats(lang i18n.Lang, users, chats, channels int, msgs int64) string {
	if lang == i18n.EN {
		return fmt.Sprintf("📊 <b>Overall stats</b>\n\n👥 Users: %d\n💬 Chats: %d\n📢 Channels: %d\n✉️ Messages: %d",
			users, chats, channels, msgs)
	}
	return fmt.Sprintf("📊 <b>Общая статистика</b>\n\n👥 Пользователей: %d\n💬 Чатов: %d\n📢 Каналов: %d\n✉️ Сообщений: %d",
		users, chats, channels, msgs)
}

func UserCard(lang i18n.Lang, firstName, lastName, username, id string, messages, reactions, rating int64, blocked bool) string {
	name := Escape(strings.TrimSpace(firstName + " " + lastName))
	handle := ""
	if username != "" {
		handle = "@" + Escape(username)
	}
	state := "✅"
	if blocked {
		state = "🚫"
	}
	if lang == i18n.EN {
		return fmt.Sprintf("%s <b>%s</b> %s\nID: <code>%s</code>\n✉️ Messages: %d\n❤️ Reactions: %d\n⭐ Rating: %d %s",
			state, name, handle, Escape(id), messages, reactions, rating, RankEmoji(rating))
	}
	return fmt.Sprintf("%s <b>%s</b> %s\nID: <code>%s</code>\n✉️ Сообщений: %d\n❤️ Реакций: %d\n⭐ Рейтинг: %d %s",
		state, name, handle, Escape(id), messages, reactions, rating, RankEmoji(rating))
}

func ChatCard(lang i18n.Lang, title, id string, members int, msgs int64, active bool) string {
	state := "✅"
	if !active {
		state = "💤"
	}
	if lang == i18n.EN {
		return fmt.Sprintf("%s <b>%s</b>\nID: <code>%s</code>\n👥 Members: %d\n✉️ Messages: %d",
			state, Escape(title), Escape(id), members, msgs)
	}
	return fmt.Sprintf("%s <b>%s</b>\nID: <code>%s</code>\n👥 Участников: %d\n✉️ Сообщений: %d",
		state, Escape(title), Escape(id), members, msgs)
}

func ChannelCard(lang i18n.Lang, title, id string, subscribers int, posts, views int64) string {
	if lang == i18n.EN {
		return fmt.Sprintf("📢 <b>%s</b>\nID: <code>%s</code>\n🔔 Subscribers: %d\n📝 Posts: %d\n👁 Views: %d",
			Escape(title), Escape(id), subscribers, posts, views)
	}
	return fmt.Sprintf("📢 <b>%s</b>\nID: <code>%s</code>\n🔔 Подписчиков: %d\n📝 Постов: %d\n👁 Просмотров: %d",
		Escape(title), Escape(id), subscribers, posts, views)
}

func TopUsersHeader(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "🏆 <b>Top users</b>\n"
	}
	return "🏆 <b>Лучшие пользователи</b>\n"
}

// Welcome renders a chat's greeting template. The substituted values come
// from the platform, so they are escaped; the template itself is
// operator-authored and may carry HTML.
func Welcome(template, name, chatTitle string) string {
	if strings.TrimSpace(template) == "" {
		template = "👋 Добро пожаловать, {name}!"
	}
	out := strings.ReplaceAll(template, "{name}", Escape(name))
	return strings.ReplaceAll(out, "{chat}", Escape(chatTitle))
}

func PromptNewRating(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Enter the new rating value:"
	}
	return "✏️ Введите новое значение рейтинга:"
}

func PromptSearchUser(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "🔍 Enter a username or user id:"
	}
	return "🔍 Введите имя пользователя или его ID:"
}

func PromptSearchChannel(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "🔍 Enter a channel title or id:"
	}
	return "🔍 Введите название канала или его ID:"
}

func PromptNewChatTitle(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Enter the new chat title:"
	}
	return "✏️ Введите новое название чата:"
}

func PromptWelcomeTemplate(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Send the welcome template. Placeholders: {name}, {chat}."
	}
	return "✏️ Отправьте шаблон приветствия. Подстановки: {name}, {chat}."
}

func PromptMessageText(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Send the message text:"
	}
	return "✏️ Отправьте текст сообщения:"
}

func PromptRemoveUsername(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Enter the username to remove:"
	}
	return "✏️ Введите имя пользователя для удаления:"
}

func PromptBroadcastText(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Send the broadcast text:"
	}
	return "✏️ Отправьте текст рассылки:"
}

func PromptNewName(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Enter your new name:"
	}
	return "✏️ Введите новое имя:"
}

func PromptReactions(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Enter the number of reactions to add:"
	}
	return "✏️ Введите количество реакций для начисления:"
}

func PromptAddSubscribers(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Send usernames or ids to subscribe, separated by spaces:"
	}
	return "✏️ Отправьте имена или ID пользователей через пробел:"
}

func PromptDropSubscriber(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Enter the username or id to unsubscribe:"
	}
	return "✏️ Введите имя или ID пользователя для отписки:"
}

func PromptChannelViews(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✏️ Enter the number of views to record:"
	}
	return "✏️ Введите количество просмотров:"
}

func SubscribersAdded(lang i18n.Lang, added, skipped int) string {
	if lang == i18n.EN {
		return fmt.Sprintf("✅ Subscribed: %d, not found: %d", added, skipped)
	}
	return fmt.Sprintf("✅ Подписано: %d, не найдено: %d", added, skipped)
}

func NotificationsMenu(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "🔔 <b>Notifications</b>\nToggle them globally or per chat."
	}
	return "🔔 <b>Уведомления</b>\nВключайте их глобально или для отдельных чатов."
}

func RatingUpdated(lang i18n.Lang, oldRating, newRating int64) string {
	if lang == i18n.EN {
		return fmt.Sprintf("✅ Rating updated: %d → %d", oldRating, newRating)
	}
	return fmt.Sprintf("✅ Рейтинг обновлён: %d → %d", oldRating, newRating)
}

func InvalidNumber(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "❌ That is not a number."
	}
	return "❌ Это не число."
}

func UserBlocked(lang i18n.Lang, blocked bool) string {
	if lang == i18n.EN {
		if blocked {
			return "🚫 User blocked."
		}
		return "🔓 User unblocked."
	}
	if blocked {
		return "🚫 Пользователь заблокирован."
	}
	return "🔓 Пользователь разблокирован."
}

func Saved(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✅ Saved."
	}
	return "✅ Сохранено."
}

func Sent(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✅ Sent."
	}
	return "✅ Отправлено."
}

func SendFailed(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "🚫 Could not deliver the message."
	}
	return "🚫 Не удалось доставить сообщение."
}

func ConfirmDelete(lang i18n.Lang, title string) string {
	if lang == i18n.EN {
		return fmt.Sprintf("⚠️ Delete <b>%s</b>? This cannot be undone.", Escape(title))
	}
	return fmt.Sprintf("⚠️ Удалить <b>%s</b>? Это действие необратимо.", Escape(title))
}

func Deleted(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "🗑️ Deleted."
	}
	return "🗑️ Удалено."
}

func Cancelled(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "✅ Cancelled."
	}
	return "✅ Отменено."
}

func Removed(lang i18n.Lang, n int) string {
	if lang == i18n.EN {
		return fmt.Sprintf("🗑️ Removed: %d", n)
	}
	return fmt.Sprintf("🗑️ Удалено: %d", n)
}

func BroadcastPreparing(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "ℹ️ Preparing the broadcast..."
	}
	return "ℹ️ Подготовка к рассылке..."
}

func BroadcastProgress(lang i18n.Lang, percent float64, ok, failed, blocked int) string {
	if lang == i18n.EN {
		return fmt.Sprintf("ℹ️ Broadcast progress: %.1f%%\nSent: %d\nFailed: %d\nBlocked: %d",
			percent, ok, failed, blocked)
	}
	return fmt.Sprintf("ℹ️ Прогресс рассылки: %.1f%%\nОтправлено: %d\nОшибок: %d\nЗаблокировали: %d",
		percent, ok, failed, blocked)
}

func BroadcastReport(lang i18n.Lang, total, ok, failed, blocked int) string {
	if lang == i18n.EN {
		return fmt.Sprintf("✅ <b>Broadcast finished</b>\n\nRecipients: %d\nSent: %d\nFailed: %d\nBlocked the bot: %d",
			total, ok, failed, blocked)
	}
	return fmt.Sprintf("✅ <b>Рассылка завершена</b>\n\nВсего получателей: %d\nУспешно отправлено: %d\nОшибок доставки: %d\nЗаблокировали бота: %d",
		total, ok, failed, blocked)
}

func Status(lang i18n.Lang, uptime string, users, chats, channels int) string {
	if lang == i18n.EN {
		return fmt.Sprintf("🤖 <b>Bot status</b>\n⏱ Uptime: %s\n👥 Users: %d\n💬 Chats: %d\n📢 Channels: %d",
			uptime, users, chats, channels)
	}
	return fmt.Sprintf("🤖 <b>Состояние бота</b>\n⏱ Аптайм: %s\n👥 Пользователей: %d\n💬 Чатов: %d\n📢 Каналов: %d",
		uptime, users, chats, channels)
}

func DBStats(lang i18n.Lang, day, week int64) string {
	if lang == i18n.EN {
		return fmt.Sprintf("🗄 <b>Database stats</b>\n✉️ Messages in 24h: %d\n✉️ Messages in 7d: %d", day, week)
	}
	return fmt.Sprintf("🗄 <b>Статистика базы</b>\n✉️ Сообщений за 24ч: %d\n✉️ Сообщений за 7д: %d", day, week)
}

func DBStatsUnavailable(lang i18n.Lang) string {
	if lang == i18n.EN {
		return "🗄 The analytics database is not configured."
	}
	return "🗄 База аналитики не настроена."
}

func StatsRefreshed(lang i18n.Lang, chats, channels int) string {
	if lang == i18n.EN {
		return fmt.Sprintf("✅ Refreshed from the platform: %d chats, %d channels", chats, channels)
	}
	return fmt.Sprintf("✅ Обновлено с платформы: %d чатов, %d каналов", chats, channels)
}

func ScanDone(lang i18n.Lang, added int) string {
	if lang == i18n.EN {
		return fmt.Sprintf("✅ Scan finished, members added: %d", added)
	}
	return fmt.Sprintf("✅ Сканирование завершено, добавлено участников: %d", added)
}

func AlertPersistFailed(err error) string {
	return "❌ Ошибка при сохранении данных: " + Escape(err.Error())
}

func AlertDataCorrupt(err error) string {
	return "⚠️ Файл данных повреждён, коллекции сброшены: " + Escape(err.Error())
}

func AlertFatal(err error) string {
	return "❌ Критическая ошибка при работе бота:\n" + Escape(err.Error())
}
