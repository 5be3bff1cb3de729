package kv

// Persistence keys. These names are the store's external interface: existing
// store files written by earlier versions of the storefront use them, so
// they must not change.
const (
	KeyProductList    = "productList"
	KeyCarouselImages = "carouselImages"
	KeyCart           = "cart"
	KeyDeliveryMethod = "deliveryMethod"
	KeyPaymentMethod  = "paymentMethod"
	KeyCustomerInfo   = "customerInfo"
	KeyAppliedCoupon  = "appliedCoupon"
	KeyDiscount       = "discount"
	KeyStoreInfo      = "storeInfo"
	KeyThemeColors    = "themeColors"
)
