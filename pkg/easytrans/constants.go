package easytrans

// AuthType is the "type" field of an import request's authentication block.
type AuthType string

const (
	AuthOrderImport      AuthType = "order_import"
	AuthCustomerImport   AuthType = "customer_import"
	AuthPacksOrderImport AuthType = "packs_order_import"
	AuthGLSOrderImport   AuthType = "gls_order_import"
)

// Mode selects whether the import endpoint persists what it receives.
type Mode string

const (
	// ModeTest validates the request without saving anything.
	ModeTest Mode = "test"
	// ModeEffect saves the request. Submitting twice creates two records.
	ModeEffect Mode = "effect"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeTest || m == ModeEffect
}

// OrderStatus is the submission status of an imported order.
type OrderStatus string

const (
	OrderSave   OrderStatus = "save"
	OrderSubmit OrderStatus = "submit"
	OrderQuote  OrderStatus = "quote"
)

// CollectDeliver marks a destination as pickup, delivery or both.
type CollectDeliver int

const (
	Pickup         CollectDeliver = 0
	Delivery       CollectDeliver = 1
	PickupDelivery CollectDeliver = 2
)

// Salutation of a customer contact.
type Salutation int

const (
	SalutationUnknown Salutation = 0
	SalutationMr      Salutation = 1
	SalutationMrsMs   Salutation = 2
	SalutationAttn    Salutation = 3
)

// DocumentType is the file type of a document attached to a destination.
type DocumentType string

const (
	DocumentPDF  DocumentType = "pdf"
	DocumentXLS  DocumentType = "xls"
	DocumentXLSX DocumentType = "xlsx"
	DocumentDOC  DocumentType = "doc"
	DocumentDOCX DocumentType = "docx"
)

// ReturnDocumentType selects a document to be returned with an order import.
type ReturnDocumentType string

const (
	ReturnNone               ReturnDocumentType = ""
	ReturnDeliveryNote       ReturnDocumentType = "delivery_note"
	ReturnOrderList          ReturnDocumentType = "orderlist"
	ReturnOrderListLandscape ReturnDocumentType = "orderlist_landscape"
	ReturnLabel10x15         ReturnDocumentType = "label10x15"
	ReturnLabel4xA6Pos1      ReturnDocumentType = "label4xa6_1"
	ReturnLabel4xA6Pos2      ReturnDocumentType = "label4xa6_2"
	ReturnLabel4xA6Pos3      ReturnDocumentType = "label4xa6_3"
	ReturnLabel4xA6Pos4      ReturnDocumentType = "label4xa6_4"
	ReturnCMR                ReturnDocumentType = "cmr"
)

// PaymentMethod of an imported customer. Empty means bank transfer.
type PaymentMethod string

const (
	PaymentDefault                   PaymentMethod = ""
	PaymentBankTransfer              PaymentMethod = "bank_transfer"
	PaymentCash                      PaymentMethod = "cash"
	PaymentDirectDebit               PaymentMethod = "direct_debit"
	PaymentOnline                    PaymentMethod = "online_payment"
	PaymentBankTransferOnlinePayment PaymentMethod = "bank_transfer_online_payment"
	PaymentCreditCard                PaymentMethod = "creditcard"
	PaymentFactoring                 PaymentMethod = "factoring"
)

// VatLiable is a customer's VAT liability.
type VatLiable int

const (
	VatShifted   VatLiable = 0
	VatLiableYes VatLiable = 1
	VatExport    VatLiable = 2
)

// Language of documents and e-mails. Empty uses the carrier default.
type Language string

const (
	LanguageDefault Language = ""
	LanguageDutch   Language = "nl"
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
	LanguageFrench  Language = "fr"
)

// WebhookStatus is the order status reported in a webhook.
type WebhookStatus string

const (
	WebhookInProgress WebhookStatus = "in-progress"
	WebhookCollected  WebhookStatus = "collected"
	WebhookFinished   WebhookStatus = "finished"
	WebhookException  WebhookStatus = "exception"
)

// TaskType of a webhook destination.
type TaskType string

const (
	TaskPickup         TaskType = "pickup"
	TaskDelivery       TaskType = "delivery"
	TaskPickupDelivery TaskType = "pickup/delivery"
)
