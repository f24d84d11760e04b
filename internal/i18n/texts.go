package i18n

var texts = map[string]map[Key]string{
	LangRU: {
		Welcome: "👋 Добро пожаловать в маркетплейс цифровых товаров! Оплата в USDT (TRC20, ERC20, BEP20).",

		ChooseNetwork:    "🌐 Выберите сеть для оплаты",
		NetworkTRC20:     "TRC20 (Tron) - Низкие комиссии",
		NetworkERC20:     "ERC20 (Ethereum) - Высокие комиссии",
		NetworkBEP20:     "BEP20 (BSC) - Средние комиссии",
		BtnBack:          "🔙 Назад",
		BtnSentPayment:   "✅ Я отправил платеж",
		BtnCheckPayment:  "🔄 Проверить платеж",
		BtnCancelOrder:   "❌ Отменить заказ",
		BtnBackToProduct: "🔙 Назад к товару",
		BtnReview:        "⭐ Оставить отзыв",
		BtnMyOrders:      "📦 Мои заказы",

		PayTitle:      "💳 Информация об оплате",
		PayAmount:     "💵 Сумма",
		PayCommission: "💼 Комиссия",
		PayTotal:      "💰 Итого к оплате",
		PayNetwork:    "🌐 Сеть",
		PayOrderID:    "🆔 ID заказа",
		PayAddress:    "📍 Адрес кошелька",
		PayImportant:  "⚠️ Важно",
		PayNoteExact:  "• Отправьте ТОЧНО",
		PayNoteNet:    "• Используйте ТОЛЬКО сеть",
		PayNoteAuto:   "• Платеж будет подтвержден автоматически",
		PayWaiting:    "⏱️ Ожидание платежа...",

		MonitorStopped: "⏱️ Автоматическая проверка платежа остановлена. Вы можете проверить платеж вручную, нажав кнопку \"Проверить платеж\".",
		Checking:       "🔄 Проверяю платеж...",
		NotReceived:    "❌ Платеж еще не получен. Пожалуйста, убедитесь, что вы отправили правильную сумму на указанный адрес.",

		StatusPaid:      "✅ Платеж уже подтвержден!",
		StatusDelivered: "✅ Товар уже доставлен!",
		StatusCompleted: "✅ Заказ обработан.",
		StatusCancelled: "✅ Заказ отменен.",

		DeliveryTitle:   "✅ Платеж подтвержден!",
		DeliveryProduct: "📦 Ваш товар:",
		DeliveryFile:    "📎 Файл/ссылка:",
		DeliveryText:    "📝 Текст/код:",
		DeliveryThanks:  "Спасибо за покупку!",
		DeliverySupport: "Если возникли проблемы, обратитесь в поддержку.",
		SellerSale:      "💰 Продажа!\n\nВаш товар *%s* был куплен за %s USDT.\nКомиссия: %s USDT\nК получению: %s USDT",

		OrderCancelled: "❌ Заказ отменен.",

		ErrGeneric:            "❌ Произошла ошибка. Попробуйте позже.",
		ErrUserNotFound:       "❌ Пользователь не найден. Используйте /start",
		ErrProductNotFound:    "❌ Товар не найден или недоступен.",
		ErrOwnProduct:         "❌ Вы не можете купить свой собственный товар.",
		ErrNetworkUnavailable: "❌ Сеть временно недоступна. Выберите другую сеть.",
		ErrNetworkNamed:       "❌ Сеть %s временно недоступна. Выберите другую сеть.",
		ErrOrderNotFound:      "❌ Заказ не найден.",
		ErrNotYourOrder:       "❌ Это не ваш заказ.",
		ErrCannotCancel:       "❌ Нельзя отменить обработанный заказ.",
		ErrInvalidState:       "❌ Действие недоступно для заказа в текущем статусе.",
		ErrAccessDenied:       "❌ Доступ запрещен.",
		ErrNotFound:           "❌ Не найдено.",
		ErrCreateOrder:        "❌ Произошла ошибка при создании заказа. Попробуйте позже.",
		ErrCheckPayment:       "❌ Произошла ошибка при проверке платежа.",
		ErrDelivery:           "❌ Произошла ошибка при доставке товара. Обратитесь в поддержку.",
	},
	LangEN: {
		Welcome: "👋 Welcome to the digital goods marketplace! Payments in USDT (TRC20, ERC20, BEP20).",

		ChooseNetwork:    "🌐 Choose payment network",
		NetworkTRC20:     "TRC20 (Tron) - Low fees",
		NetworkERC20:     "ERC20 (Ethereum) - High fees",
		NetworkBEP20:     "BEP20 (BSC) - Medium fees",
		BtnBack:          "🔙 Back",
		BtnSentPayment:   "✅ I have sent the payment",
		BtnCheckPayment:  "🔄 Check payment",
		BtnCancelOrder:   "❌ Cancel order",
		BtnBackToProduct: "🔙 Back to product",
		BtnReview:        "⭐ Leave a review",
		BtnMyOrders:      "📦 My orders",

		PayTitle:      "💳 Payment Information",
		PayAmount:     "💵 Amount",
		PayCommission: "💼 Commission",
		PayTotal:      "💰 Total to pay",
		PayNetwork:    "🌐 Network",
		PayOrderID:    "🆔 Order ID",
		PayAddress:    "📍 Wallet Address",
		PayImportant:  "⚠️ Important",
		PayNoteExact:  "• Send EXACTLY",
		PayNoteNet:    "• Use ONLY",
		PayNoteAuto:   "• Payment will be confirmed automatically",
		PayWaiting:    "⏱️ Waiting for payment...",

		MonitorStopped: "⏱️ Automatic payment check stopped. You can check payment manually by pressing \"Check payment\" button.",
		Checking:       "🔄 Checking payment...",
		NotReceived:    "❌ Payment not received yet. Please make sure you sent the correct amount to the specified address.",

		StatusPaid:      "✅ Payment already confirmed!",
		StatusDelivered: "✅ Product already delivered!",
		StatusCompleted: "✅ Order processed.",
		StatusCancelled: "✅ Order cancelled.",

		DeliveryTitle:   "✅ Payment confirmed!",
		DeliveryProduct: "📦 Your product:",
		DeliveryFile:    "📎 File/link:",
		DeliveryText:    "📝 Text/code:",
		DeliveryThanks:  "Thank you for your purchase!",
		DeliverySupport: "If you have any issues, please contact support.",
		SellerSale:      "💰 Sale!\n\nYour product *%s* was purchased for %s USDT.\nCommission: %s USDT\nTo receive: %s USDT",

		OrderCancelled: "❌ Order cancelled.",

		ErrGeneric:            "❌ An error occurred. Please try later.",
		ErrUserNotFound:       "❌ User not found. Use /start",
		ErrProductNotFound:    "❌ Product not found or unavailable.",
		ErrOwnProduct:         "❌ You cannot buy your own product.",
		ErrNetworkUnavailable: "❌ Network is temporarily unavailable. Choose another network.",
		ErrNetworkNamed:       "❌ Network %s is temporarily unavailable. Choose another network.",
		ErrOrderNotFound:      "❌ Order not found.",
		ErrNotYourOrder:       "❌ This is not your order.",
		ErrCannotCancel:       "❌ Cannot cancel a processed order.",
		ErrInvalidState:       "❌ This action is not available for the order in its current status.",
		ErrAccessDenied:       "❌ Access denied.",
		ErrNotFound:           "❌ Not found.",
		ErrCreateOrder:        "❌ An error occurred while creating the order. Please try later.",
		ErrCheckPayment:       "❌ An error occurred while checking payment.",
		ErrDelivery:           "❌ An error occurred while delivering the product. Please contact support.",
	},
	LangUK: {
		Welcome: "👋 Ласкаво просимо до маркетплейсу цифрових товарів! Оплата в USDT (TRC20, ERC20, BEP20).",

		ChooseNetwork:    "🌐 Оберіть мережу для оплати",
		NetworkTRC20:     "TRC20 (Tron) - Низькі комісії",
		NetworkERC20:     "ERC20 (Ethereum) - Високі комісії",
		NetworkBEP20:     "BEP20 (BSC) - Середні комісії",
		BtnBack:          "🔙 Назад",
		BtnSentPayment:   "✅ Я надіслав платіж",
		BtnCheckPayment:  "🔄 Перевірити платіж",
		BtnCancelOrder:   "❌ Скасувати замовлення",
		BtnBackToProduct: "🔙 Назад до товару",
		BtnReview:        "⭐ Залишити відгук",
		BtnMyOrders:      "📦 Мої замовлення",

		PayTitle:      "💳 Інформація про оплату",
		PayAmount:     "💵 Сума",
		PayCommission: "💼 Комісія",
		PayTotal:      "💰 Всього до сплати",
		PayNetwork:    "🌐 Мережа",
		PayOrderID:    "🆔 ID замовлення",
		PayAddress:    "📍 Адреса гаманця",
		PayImportant:  "⚠️ Важливо",
		PayNoteExact:  "• Надішліть ТОЧНО",
		PayNoteNet:    "• Використовуйте ТІЛЬКИ мережу",
		PayNoteAuto:   "• Платіж буде підтверджено автоматично",
		PayWaiting:    "⏱️ Очікування платежу...",

		MonitorStopped: "⏱️ Автоматичну перевірку платежу зупинено. Ви можете перевірити платіж вручну, натиснувши кнопку \"Перевірити платіж\".",
		Checking:       "🔄 Перевіряю платіж...",
		NotReceived:    "❌ Платіж ще не отримано. Будь ласка, переконайтеся, що ви надіслали правильну суму на вказану адресу.",

		StatusPaid:      "✅ Платіж вже підтверджено!",
		StatusDelivered: "✅ Товар вже доставлено!",
		StatusCompleted: "✅ Замовлення оброблено.",
		StatusCancelled: "✅ Замовлення скасовано.",

		DeliveryTitle:   "✅ Платіж підтверджено!",
		DeliveryProduct: "📦 Ваш товар:",
		DeliveryFile:    "📎 Файл/посилання:",
		DeliveryText:    "📝 Текст/код:",
		DeliveryThanks:  "Дякуємо за покупку!",
		DeliverySupport: "Якщо виникли проблеми, зверніться до підтримки.",
		SellerSale:      "💰 Продаж!\n\nВаш товар *%s* було куплено за %s USDT.\nКомісія: %s USDT\nДо отримання: %s USDT",

		OrderCancelled: "❌ Замовлення скасовано.",

		ErrGeneric:            "❌ Сталася помилка. Спробуйте пізніше.",
		ErrUserNotFound:       "❌ Користувача не знайдено. Використайте /start",
		ErrProductNotFound:    "❌ Товар не знайдено або він недоступний.",
		ErrOwnProduct:         "❌ Ви не можете купити власний товар.",
		ErrNetworkUnavailable: "❌ Мережа тимчасово недоступна. Оберіть іншу мережу.",
		ErrNetworkNamed:       "❌ Мережа %s тимчасово недоступна. Оберіть іншу мережу.",
		ErrOrderNotFound:      "❌ Замовлення не знайдено.",
		ErrNotYourOrder:       "❌ Це не ваше замовлення.",
		ErrCannotCancel:       "❌ Не можна скасувати оброблене замовлення.",
		ErrInvalidState:       "❌ Дія недоступна для замовлення в поточному статусі.",
		ErrAccessDenied:       "❌ Доступ заборонено.",
		ErrNotFound:           "❌ Не знайдено.",
		ErrCreateOrder:        "❌ Сталася помилка під час створення замовлення. Спробуйте пізніше.",
		ErrCheckPayment:       "❌ Сталася помилка під час перевірки платежу.",
		ErrDelivery:           "❌ Сталася помилка під час доставки товару. Зверніться до підтримки.",
	},
}
