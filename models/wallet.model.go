package models

import (
	"time"
)

// Wallet holds a minted Stellar keypair's public half. The secret key is
// never persisted; funding happens once through Friendbot at creation.
type Wallet struct {
	WalletID  string    `gorm:"type:varchar(36);primaryKey" json:"walletId"`
	PublicKey string    `gorm:"type:varchar(56);uniqueIndex;not null" json:"publicKey"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Wallet) TableName() string {
	return "wallets"
}
